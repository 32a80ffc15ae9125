package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的用戶
type User struct {
	gorm.Model            // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Email          string `gorm:"uniqueIndex;not null" json:"email,omitempty"` // 電子郵件，必須唯一
	Username       string `gorm:"uniqueIndex;not null" json:"username"`        // 用戶名，必須唯一
	HashedPassword string `gorm:"not null" json:"-"`                           // 密碼雜湊，json 序列化時會被忽略
	Bio            string `gorm:"type:varchar(200)" json:"bio"`                // 個人簡介
	Group          int    `gorm:"not null;default:0" json:"group"`             // 用戶組級別，數字越大權限越高
	AvatarFilename string `json:"avatar_filename,omitempty"`                   // 頭像檔名
	Verified       bool   `gorm:"default:false" json:"verified"`               // 是否通過驗證
	Banned         bool   `gorm:"default:false" json:"banned"`                 // 是否被封禁
	Points         int    `gorm:"not null;default:20" json:"points"`           // 積分餘額，可能為負

	Polls []Poll `gorm:"foreignKey:AuthorID" json:"polls,omitempty"` // 用戶創建的投票列表
}

// 用戶欄位的長度限制
const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
	MaxBioLength      = 200
)

// Public 回傳隱藏電子郵件的副本，供非本人且非管理人員查看
func (u User) Public() User {
	u.Email = ""
	return u
}
