// Package apperrors 定義 API 的錯誤類型表。
//
// 每個錯誤帶有一個穩定的錯誤碼（HTTP 狀態 * 100 + 子碼），
// 客戶端根據錯誤碼判斷錯誤種類，而不是解析訊息文字。
package apperrors

import (
	"net/http"
)

// Error 表示一個帶錯誤碼的 API 錯誤
type Error struct {
	Code    int                 `json:"code"`             // 錯誤碼，形如 40401
	Status  int                 `json:"-"`                // 對應的 HTTP 狀態碼
	Message string              `json:"message"`          // 錯誤描述
	Fields  map[string][]string `json:"fields,omitempty"` // 欄位驗證錯誤，僅 InvalidRequest 使用
}

func (e *Error) Error() string {
	return e.Message
}

// Is 讓 errors.Is 以錯誤碼判斷相等，WithFields 產生的副本仍視為同一種錯誤
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithFields 回傳帶欄位錯誤信息的副本
func (e *Error) WithFields(fields map[string][]string) *Error {
	clone := *e
	clone.Fields = fields
	return &clone
}

// 預定義的錯誤表
var (
	ErrInvalidRequest   = &Error{Code: 40001, Status: http.StatusBadRequest, Message: "Invalid request"}
	ErrUnknownAction    = &Error{Code: 40002, Status: http.StatusBadRequest, Message: "Unknown action"}
	ErrWrongOldPassword = &Error{Code: 40003, Status: http.StatusBadRequest, Message: "Wrong old password"}

	ErrWrongCredentials = &Error{Code: 40101, Status: http.StatusUnauthorized, Message: "Wrong credentials"}
	ErrInvalidToken     = &Error{Code: 40102, Status: http.StatusUnauthorized, Message: "Invalid or expired token"}

	ErrNotEnoughPoints = &Error{Code: 40201, Status: http.StatusPaymentRequired, Message: "Not enough points"}

	ErrAccessDenied    = &Error{Code: 40301, Status: http.StatusForbidden, Message: "Access denied"}
	ErrGroupNotAllowed = &Error{Code: 40302, Status: http.StatusForbidden, Message: "Group is not allowed"}
	ErrBanned          = &Error{Code: 40303, Status: http.StatusForbidden, Message: "User is banned"}

	ErrUserNotFound    = &Error{Code: 40401, Status: http.StatusNotFound, Message: "User not found"}
	ErrPollNotFound    = &Error{Code: 40402, Status: http.StatusNotFound, Message: "Poll not found"}
	ErrOptionNotFound  = &Error{Code: 40403, Status: http.StatusNotFound, Message: "Option not found"}
	ErrCommentNotFound = &Error{Code: 40404, Status: http.StatusNotFound, Message: "Comment not found"}
	ErrGroupNotFound   = &Error{Code: 40405, Status: http.StatusNotFound, Message: "Group not found"}

	ErrUserAlreadyExists = &Error{Code: 40901, Status: http.StatusConflict, Message: "User already exists"}
	ErrPollCompleted     = &Error{Code: 40902, Status: http.StatusConflict, Message: "Poll is completed"}

	ErrDatabase = &Error{Code: 50001, Status: http.StatusInternalServerError, Message: "Database error"}
)

// From 將任意錯誤轉換為 *Error
// 未知的錯誤（例如資料庫完整性錯誤）一律轉為 ErrDatabase，避免洩漏存儲層細節
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*Error); ok {
		return apiErr
	}
	return ErrDatabase
}
