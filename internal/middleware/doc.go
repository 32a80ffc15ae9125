// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了身份驗證和權限檢查的中間件函數。
// Auth 負責解析 JWT 並載入當前用戶，RequireGroup 負責組級別的路由閘門。
package middleware
