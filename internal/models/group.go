package models

// Group 表示一個用戶組（權限級別）
// 級別是全序的：數字越大權限越高
type Group struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// 預定義的用戶組
var (
	GroupUser      = Group{ID: 0, Title: "User"}
	GroupModerator = Group{ID: 1, Title: "Moderator"}
	GroupAdmin     = Group{ID: 10, Title: "Admin"}
	GroupOwner     = Group{ID: 100, Title: "Owner"}
)

var groups = []Group{GroupUser, GroupModerator, GroupAdmin, GroupOwner}

// GetGroup 根據 ID 查找用戶組，找不到時回傳 false 而不是 panic
func GetGroup(id int) (Group, bool) {
	for _, g := range groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// GetGroupByTitle 根據名稱查找用戶組
func GetGroupByTitle(title string) (Group, bool) {
	for _, g := range groups {
		if g.Title == title {
			return g, true
		}
	}
	return Group{}, false
}

// IsAtLeast 檢查級別是否達到要求，用於功能權限判斷
func IsAtLeast(level, required int) bool {
	return level >= required
}

// IsAbove 檢查級別是否嚴格高於目標，用於對其他用戶的操作判斷
// 同級或更高級的用戶之間不允許互相操作
func IsAbove(actorLevel, targetLevel int) bool {
	return actorLevel > targetLevel
}
