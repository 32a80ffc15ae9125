package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/authz"
	"quickpolls/internal/models"
	"quickpolls/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	pollRepo    repository.PollRepository
}

func NewCommentService(commentRepo repository.CommentRepository, pollRepo repository.PollRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, pollRepo: pollRepo}
}

// Create 在投票下留言
func (s *CommentService) Create(actor *models.User, pollID uint, text string) (*models.Comment, error) {
	if fields := validateCommentText(text); len(fields) > 0 {
		return nil, apperrors.ErrInvalidRequest.WithFields(fields)
	}

	if _, err := s.pollRepo.FindByID(pollID); err != nil {
		return nil, pollError(err)
	}

	comment := models.Comment{
		UserID: actor.ID,
		PollID: pollID,
		Text:   text,
	}
	if err := s.commentRepo.Create(&comment); err != nil {
		return nil, apperrors.ErrDatabase
	}
	return &comment, nil
}

func (s *CommentService) Get(id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, commentError(err)
	}
	comment.User = comment.User.Public()
	return comment, nil
}

// Update 修改留言內容，允許作者或 Moderator 以上
func (s *CommentService) Update(actor *models.User, id uint, text string) error {
	if fields := validateCommentText(text); len(fields) > 0 {
		return apperrors.ErrInvalidRequest.WithFields(fields)
	}

	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return commentError(err)
	}

	if err := authz.Authorize(actor, authz.ActionModerate, authz.Resource{OwnerID: comment.UserID}); err != nil {
		return err
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// Delete 刪除留言，允許作者或 Moderator 以上
func (s *CommentService) Delete(actor *models.User, id uint) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return commentError(err)
	}

	if err := authz.Authorize(actor, authz.ActionModerate, authz.Resource{OwnerID: comment.UserID}); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// 長度限制按字符數計算，不是字節數
func validateCommentText(text string) map[string][]string {
	if text == "" || utf8.RuneCountInString(text) > models.MaxCommentTextLength {
		return map[string][]string{
			"text": {fmt.Sprintf("Length must be between 1 and %d.", models.MaxCommentTextLength)},
		}
	}
	return nil
}

func commentError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrCommentNotFound
	}
	return apperrors.ErrDatabase
}
