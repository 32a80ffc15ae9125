package models

import (
	"time"

	"gorm.io/gorm"
)

// Poll 表示一個投票
type Poll struct {
	gorm.Model
	Title       string `gorm:"index;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	AuthorID    uint   `gorm:"not null" json:"author_id"`
	Completed   bool   `gorm:"default:false" json:"completed"` // 已結束的投票不再接受投票，直到被恢復
	Private     bool   `gorm:"default:false" json:"private"`   // 私密投票不出現在列表中，僅能通過連結訪問

	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Options  []Option  `gorm:"foreignKey:PollID" json:"options"`
	Comments []Comment `gorm:"foreignKey:PollID" json:"comments,omitempty"`
}

// 投票欄位的限制
const (
	MaxPollTitleLength       = 100
	MaxPollDescriptionLength = 1000
	MaxOptionTitleLength     = 100
	MinOptionsCount          = 2
	MaxOptionsCount          = 10
	MaxCommentTextLength     = 500
)

// Option 表示投票中的一個選項
type Option struct {
	gorm.Model
	Title  string `gorm:"not null" json:"title"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`

	Votes []Vote `gorm:"foreignKey:OptionID" json:"-"`
}

// Vote 表示用戶對某個選項的一票
// 不嵌入 gorm.Model：投票記錄沒有軟刪除，換票時直接刪除舊記錄
// (user_id, poll_id) 上的唯一索引保證同一用戶在同一投票上最多一票，
// 並發投票也不例外
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_poll" json:"user_id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_votes_user_poll" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment 表示投票下的一條留言
type Comment struct {
	gorm.Model
	UserID uint   `gorm:"not null" json:"user_id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Text   string `gorm:"not null" json:"text"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
