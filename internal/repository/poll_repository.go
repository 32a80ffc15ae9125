package repository

import (
	"errors"

	"quickpolls/internal/models"
	"quickpolls/internal/storage"

	"gorm.io/gorm"
)

type PollRepository interface {
	CreateWithCost(poll *models.Poll, cost int) error
	FindByID(id uint) (*models.Poll, error)
	FindAll() ([]models.Poll, error)
	FindByAuthor(authorID uint) ([]models.Poll, error)
	Update(poll *models.Poll) error
	DeleteCascade(pollID uint) error
	FindOption(id uint) (*models.Option, error)
	CastVote(userID uint, option *models.Option, firstVoteCredit int) (bool, error)
}

type pollRepository struct {
	db *storage.PostgresDB
}

func NewPollRepository(db *storage.PostgresDB) PollRepository {
	return &pollRepository{db: db}
}

// CreateWithCost 在同一個交易中建立投票（連同選項）並扣除作者的積分
// 任何一步失敗都會整體回滾，不會留下沒有選項的投票
func (r *pollRepository) CreateWithCost(poll *models.Poll, cost int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", poll.AuthorID).
			Update("points", gorm.Expr("points + ?", cost)).Error
	})
}

func (r *pollRepository) FindByID(id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.
		Preload("Author").
		Preload("Options").
		Preload("Options.Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").
		First(&poll, id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) FindAll() ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.
		Preload("Author").
		Preload("Options").
		Preload("Options.Votes").
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

// FindByAuthor 查詢某個用戶創建的所有投票
func (r *pollRepository) FindByAuthor(authorID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.
		Preload("Author").
		Preload("Options").
		Preload("Options.Votes").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

func (r *pollRepository) Update(poll *models.Poll) error {
	return r.db.Model(&models.Poll{}).Where("id = ?", poll.ID).
		Select("Title", "Description", "Completed", "Private").
		Updates(poll).Error
}

// DeleteCascade 刪除投票及其選項、投票記錄和留言
// 級聯順序：votes -> options -> comments -> poll，整體在一個交易中完成
func (r *pollRepository) DeleteCascade(pollID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("poll_id = ?", pollID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("poll_id = ?", pollID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Poll{}, pollID).Error
	})
}

func (r *pollRepository) FindOption(id uint) (*models.Option, error) {
	var option models.Option
	err := r.db.First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// CastVote 在一個交易中先刪除用戶在同一投票上的舊票，再寫入新票，
// 保證任何時刻同一用戶在同一投票上最多只有一票
// 若是該用戶在此投票上的第一票，同時給予 firstVoteCredit 積分獎勵
// 回傳值表示這是否為第一票
//
// 同一用戶的並發投票在 READ COMMITTED 下可能都看不到對方的插入，
// 這時 (user_id, poll_id) 唯一索引會擋下後提交的那筆；
// 撞上唯一索引的交易重試一次，重試時會先刪掉對方已提交的票
func (r *pollRepository) CastVote(userID uint, option *models.Option, firstVoteCredit int) (bool, error) {
	first := false
	cast := func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			result := tx.Where("user_id = ? AND poll_id = ?", userID, option.PollID).
				Delete(&models.Vote{})
			if result.Error != nil {
				return result.Error
			}
			first = result.RowsAffected == 0

			vote := models.Vote{UserID: userID, PollID: option.PollID, OptionID: option.ID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}

			if first && firstVoteCredit != 0 {
				return tx.Model(&models.User{}).Where("id = ?", userID).
					Update("points", gorm.Expr("points + ?", firstVoteCredit)).Error
			}
			return nil
		})
	}

	err := cast()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = cast()
	}
	return first, err
}
