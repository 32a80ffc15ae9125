package repository

import (
	"quickpolls/internal/models"
	"quickpolls/internal/storage"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByUsernameOrEmail(username, email string) (*models.User, error)
	FindAll() ([]models.User, error)
	Update(user *models.User) error
	AddPoints(userID uint, delta int) error
	Delete(user *models.User) error
}

type userRepository struct {
	db *storage.PostgresDB
}

func NewUserRepository(db *storage.PostgresDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail 查找用戶名或電子郵件匹配的用戶，用於註冊時的重複檢查
func (r *userRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ? OR email = ?", username, email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// AddPoints 以原子方式調整用戶的積分餘額
func (r *userRepository) AddPoints(userID uint, delta int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", delta)).Error
}

// Delete 刪除用戶並清理其投票記錄和留言，避免留下孤兒資料
// 用戶創建的投票由呼叫方先行級聯刪除
func (r *userRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(user).Error
	})
}
