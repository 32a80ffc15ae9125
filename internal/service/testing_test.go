package service

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickpolls/internal/models"
	"quickpolls/internal/repository"
	"quickpolls/internal/storage"
)

// newTestServices 建立一個基於記憶體 sqlite 的完整服務棧
// 每個測試使用獨立命名的資料庫，互不干擾
func newTestServices(t *testing.T) (*Services, *storage.PostgresDB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	store := &storage.PostgresDB{DB: db}
	err = store.AutoMigrate(&models.User{}, &models.Poll{}, &models.Option{}, &models.Vote{}, &models.Comment{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repos := repository.NewRepositories(store)
	return NewServices(repos), store
}

// createUser 直接寫入一個用戶，密碼固定為 password123
func createUser(t *testing.T, store *storage.PostgresDB, username string, group, points int) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: string(hash),
		Group:          group,
		Points:         points,
	}
	if err := store.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// createPoll 通過服務創建一個投票
func createPoll(t *testing.T, services *Services, author *models.User, title string, options ...string) *models.Poll {
	t.Helper()

	poll, err := services.Poll.Create(author, CreatePollInput{
		Title:   title,
		Options: options,
	})
	if err != nil {
		t.Fatalf("failed to create poll %q: %v", title, err)
	}
	return poll
}

// reload 重新從資料庫讀取用戶
func reload(t *testing.T, store *storage.PostgresDB, userID uint) *models.User {
	t.Helper()

	var user models.User
	if err := store.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", userID, err)
	}
	return &user
}
