// Package authz 實現授權閘門。
//
// 所有會改變狀態的請求都先經過 Authorize 判斷，
// 它只讀取已載入的 actor 與資源欄位，不做任何 I/O，
// 拒絕時回傳帶錯誤碼的錯誤，絕不靜默忽略。
package authz

import (
	"quickpolls/internal/apperrors"
	"quickpolls/internal/models"
)

// Action 表示一種需要授權的操作
type Action int

const (
	// ActionEditSettings 修改自己的電子郵件、密碼等，只允許本人
	ActionEditSettings Action = iota
	// ActionEditProfile 修改個人資料，允許本人或管理人員
	ActionEditProfile
	// ActionModerate 修改或刪除投票、留言等資源，允許資源擁有者或管理人員
	ActionModerate
	// ActionVerifyUser 設置或取消用戶的驗證標記，需要 Moderator 以上
	ActionVerifyUser
	// ActionBanUser 封禁或解封用戶，需要 Moderator 以上且級別嚴格高於目標
	ActionBanUser
	// ActionChangePoints 調整用戶積分，需要 Moderator 以上且級別嚴格高於目標
	ActionChangePoints
	// ActionChangeGroup 調整用戶組，需要 Admin 以上、級別嚴格高於目標，
	// 且新的組級別必須嚴格低於操作者自己的級別
	ActionChangeGroup
	// ActionListUsers 查看用戶列表，需要 Moderator 以上
	ActionListUsers
	// ActionManageUsers 創建、修改、刪除任意用戶，需要 Admin 以上
	ActionManageUsers
)

// Resource 描述授權判斷所需的資源事實
// 不涉及的欄位保持零值即可
type Resource struct {
	OwnerID     uint // 資源擁有者的用戶 ID
	TargetGroup int  // 被操作用戶的組級別
	NewGroup    int  // ActionChangeGroup 要設置的新組級別
}

// Authorize 判斷 actor 是否可以對資源執行操作
// 允許時回傳 nil，拒絕時回傳對應的錯誤
func Authorize(actor *models.User, action Action, res Resource) error {
	if actor == nil {
		return apperrors.ErrAccessDenied
	}

	switch action {
	case ActionEditSettings:
		if actor.ID != res.OwnerID {
			return apperrors.ErrAccessDenied
		}
	case ActionEditProfile, ActionModerate:
		if actor.ID != res.OwnerID && !models.IsAtLeast(actor.Group, models.GroupModerator.ID) {
			return apperrors.ErrAccessDenied
		}
	case ActionVerifyUser, ActionListUsers:
		if !models.IsAtLeast(actor.Group, models.GroupModerator.ID) {
			return apperrors.ErrAccessDenied
		}
	case ActionBanUser, ActionChangePoints:
		if !models.IsAtLeast(actor.Group, models.GroupModerator.ID) {
			return apperrors.ErrAccessDenied
		}
		if !models.IsAbove(actor.Group, res.TargetGroup) {
			return apperrors.ErrAccessDenied
		}
	case ActionChangeGroup:
		if !models.IsAtLeast(actor.Group, models.GroupAdmin.ID) {
			return apperrors.ErrAccessDenied
		}
		if !models.IsAbove(actor.Group, res.TargetGroup) {
			return apperrors.ErrAccessDenied
		}
		if !models.IsAbove(actor.Group, res.NewGroup) {
			return apperrors.ErrGroupNotAllowed
		}
	case ActionManageUsers:
		if !models.IsAtLeast(actor.Group, models.GroupAdmin.ID) {
			return apperrors.ErrAccessDenied
		}
	default:
		return apperrors.ErrAccessDenied
	}

	return nil
}
