package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/models"
	"quickpolls/internal/service"
	"quickpolls/internal/utils"
)

// Auth 是一個 Gin 中間件，用於驗證請求的 JWT token
// 通過後會從資料庫載入最新的用戶資料（組級別、封禁狀態、積分）
// 放入上下文，被封禁的用戶直接拒絕
func Auth(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		// 檢查 Authorization 頭的格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		// 解析 JWT token
		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		// 載入最新的用戶資料，token 簽發後的封禁或降級立即生效
		user, err := userService.GetByID(claims.UserID)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}
		if user.Banned {
			abortWith(c, apperrors.ErrBanned)
			return
		}

		c.Set("currentUser", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// RequireGroup 檢查當前用戶的組級別是否達到要求
// 必須掛在 Auth 之後
func RequireGroup(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !models.IsAtLeast(user.Group, level) {
			abortWith(c, apperrors.ErrAccessDenied)
			return
		}
		c.Next()
	}
}

// CurrentUser 從上下文中取出當前用戶，未登入時回傳 nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("currentUser")
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

func abortWith(c *gin.Context, err *apperrors.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err})
}
