package handlers

import (
	"github.com/gin-gonic/gin"

	"quickpolls/internal/service"
)

// AuthHandler 處理與認證相關的請求
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler 創建一個新的 AuthHandler 實例
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterInput 定義註冊請求的結構
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=4,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginInput 定義登入請求的結構
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 處理用戶註冊，成功後發放初始積分
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Register(input.Email, input.Username, input.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"user": user})
}

// Login 處理用戶登入，成功時回傳 JWT token
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	token, user, err := h.userService.Login(input.Username, input.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"token": token, "user": user})
}
