package handlers

import (
	"github.com/gin-gonic/gin"

	"quickpolls/internal/service"
)

// UserHandler 處理與用戶管理相關的請求
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 創建一個新的 UserHandler 實例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileInput 個人資料更新請求
type UpdateProfileInput struct {
	Username       *string `json:"username" binding:"omitempty,min=4,max=20"`
	Bio            *string `json:"bio" binding:"omitempty,max=200"`
	AvatarFilename *string `json:"avatar_filename"`
}

// UpdateEmailInput 電子郵件更新請求
type UpdateEmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordInput 修改密碼請求
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangeGroupInput 調整用戶組請求
type ChangeGroupInput struct {
	Group *int `json:"group" binding:"required"`
}

// ChangePointsInput 調整積分請求，action 為 +1 或 -1
type ChangePointsInput struct {
	Action int `json:"action" binding:"required"`
	Count  int `json:"count" binding:"required,gt=0"`
}

// AdminCreateUserInput 管理員創建用戶請求
type AdminCreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=4,max=20"`
	Password string `json:"password" binding:"required,min=6"`
	Group    int    `json:"group"`
}

// AdminUpdateUserInput 管理員更新用戶請求，所有欄位都是可選的
type AdminUpdateUserInput struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,min=4,max=20"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Bio      *string `json:"bio" binding:"omitempty,max=200"`
	Group    *int    `json:"group"`
	Verified *bool   `json:"verified"`
	Banned   *bool   `json:"banned"`
	Points   *int    `json:"points"`
}

// GetUser 查看用戶資料
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.ViewUser(currentUser(c), c.Param("username"))
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"user": user})
}

// GetUserPolls 查看某個用戶創建的投票列表，私密投票已被過濾
func (h *UserHandler) GetUserPolls(c *gin.Context) {
	polls, err := h.userService.PollsByUser(currentUser(c), c.Param("username"))
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"polls": polls})
}

// ListUsers 用戶列表
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(currentUser(c))
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"users": users})
}

// CreateUser 管理員創建用戶
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input AdminCreateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.AdminCreate(currentUser(c), input.Email, input.Username, input.Password, input.Group)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"user": user})
}

// UpdateUser 管理員更新用戶
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var input AdminUpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.userService.AdminUpdate(currentUser(c), c.Param("username"), service.AdminUpdateUserInput{
		Email:    input.Email,
		Username: input.Username,
		Password: input.Password,
		Bio:      input.Bio,
		Group:    input.Group,
		Verified: input.Verified,
		Banned:   input.Banned,
		Points:   input.Points,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// DeleteUser 管理員刪除用戶
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.AdminDelete(currentUser(c), c.Param("username")); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// UpdateProfile 更新個人資料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.userService.UpdateProfile(currentUser(c), c.Param("username"), service.UpdateProfileInput{
		Username:       input.Username,
		Bio:            input.Bio,
		AvatarFilename: input.AvatarFilename,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// UpdateEmail 更新電子郵件
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	var input UpdateEmailInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.userService.UpdateEmail(currentUser(c), c.Param("username"), input.Email); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// ChangePassword 修改密碼
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.userService.ChangePassword(currentUser(c), c.Param("username"), input.OldPassword, input.NewPassword)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// Verify 設置用戶的驗證標記
func (h *UserHandler) Verify(c *gin.Context) {
	if err := h.userService.SetVerified(currentUser(c), c.Param("username"), true); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// CancelVerification 取消用戶的驗證標記
func (h *UserHandler) CancelVerification(c *gin.Context) {
	if err := h.userService.SetVerified(currentUser(c), c.Param("username"), false); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// Ban 封禁用戶
func (h *UserHandler) Ban(c *gin.Context) {
	if err := h.userService.SetBanned(currentUser(c), c.Param("username"), true); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// Unban 解封用戶
func (h *UserHandler) Unban(c *gin.Context) {
	if err := h.userService.SetBanned(currentUser(c), c.Param("username"), false); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// ChangeGroup 調整用戶組
func (h *UserHandler) ChangeGroup(c *gin.Context) {
	var input ChangeGroupInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.userService.ChangeGroup(currentUser(c), c.Param("username"), *input.Group); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// ChangePoints 調整用戶積分
func (h *UserHandler) ChangePoints(c *gin.Context) {
	var input ChangePointsInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.userService.ChangePoints(currentUser(c), c.Param("username"), input.Action, input.Count)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}
