package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/middleware"
	"quickpolls/internal/models"
)

// Success 輸出成功響應，格式為 {"success": "ok", ...payload}
func Success(c *gin.Context, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = "ok"
	c.JSON(http.StatusOK, payload)
}

// Fail 輸出錯誤響應，格式為 {"error": {"code": ..., "message": ..., "fields": ...}}
// 非 API 錯誤一律當作資料庫錯誤處理，不洩漏內部細節
func Fail(c *gin.Context, err error) {
	apiErr := apperrors.From(err)
	c.JSON(apiErr.Status, gin.H{"error": apiErr})
}

// bindJSON 解析請求體並把驗證錯誤轉成每個欄位的錯誤訊息
// 失敗時已輸出響應，呼叫方直接 return 即可
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := map[string][]string{}
			for _, fieldErr := range validationErrs {
				name := strings.ToLower(fieldErr.Field())
				fields[name] = append(fields[name], "Failed validation: "+fieldErr.Tag()+".")
			}
			Fail(c, apperrors.ErrInvalidRequest.WithFields(fields))
		} else {
			Fail(c, apperrors.ErrInvalidRequest)
		}
		return false
	}
	return true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}
