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

type PollService struct {
	pollRepo repository.PollRepository
	results  *ResultsManager
}

func NewPollService(pollRepo repository.PollRepository, results *ResultsManager) *PollService {
	return &PollService{
		pollRepo: pollRepo,
		results:  results,
	}
}

// CreatePollInput 創建投票的輸入
type CreatePollInput struct {
	Title       string
	Description string
	Private     bool
	Options     []string
}

// UpdatePollInput 更新投票的可選欄位
type UpdatePollInput struct {
	Title       *string
	Description *string
	Private     *bool
}

// List 回傳投票列表
// 私密投票只對作者和 Moderator 以上可見
func (s *PollService) List(actor *models.User) ([]models.Poll, error) {
	polls, err := s.pollRepo.FindAll()
	if err != nil {
		return nil, apperrors.ErrDatabase
	}

	visible := make([]models.Poll, 0, len(polls))
	for _, poll := range polls {
		if poll.Private && !canModerate(actor, poll.AuthorID) {
			continue
		}
		poll.Author = poll.Author.Public()
		visible = append(visible, poll)
	}
	return visible, nil
}

func (s *PollService) Get(actor *models.User, pollID uint) (*models.Poll, error) {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		return nil, pollError(err)
	}

	if actor == nil || (actor.ID != poll.Author.ID && !models.IsAtLeast(actor.Group, models.GroupModerator.ID)) {
		poll.Author = poll.Author.Public()
	}
	for i := range poll.Comments {
		poll.Comments[i].User = poll.Comments[i].User.Public()
	}
	return poll, nil
}

// Create 創建投票
// 先驗證欄位和積分餘額，再於一個交易中建立投票連同選項並扣除積分
func (s *PollService) Create(actor *models.User, input CreatePollInput) (*models.Poll, error) {
	if fields := validatePollInput(input); len(fields) > 0 {
		return nil, apperrors.ErrInvalidRequest.WithFields(fields)
	}

	if !models.CanAfford(actor.Points, models.PointsCreatePoll) {
		return nil, apperrors.ErrNotEnoughPoints
	}

	poll := models.Poll{
		Title:       input.Title,
		Description: input.Description,
		Private:     input.Private,
		AuthorID:    actor.ID,
	}
	for _, title := range input.Options {
		poll.Options = append(poll.Options, models.Option{Title: title})
	}

	if err := s.pollRepo.CreateWithCost(&poll, models.PointsCreatePoll); err != nil {
		return nil, apperrors.ErrDatabase
	}
	actor.Points += models.PointsCreatePoll

	return &poll, nil
}

// Update 更新投票的標題、描述或私密標記，允許作者或 Moderator 以上
func (s *PollService) Update(actor *models.User, pollID uint, input UpdatePollInput) error {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		return pollError(err)
	}

	if err := authz.Authorize(actor, authz.ActionModerate, authz.Resource{OwnerID: poll.AuthorID}); err != nil {
		return err
	}

	fields := map[string][]string{}
	if input.Title != nil {
		if *input.Title == "" || utf8.RuneCountInString(*input.Title) > models.MaxPollTitleLength {
			fields["title"] = []string{fmt.Sprintf("Length must be between 1 and %d.", models.MaxPollTitleLength)}
		}
		poll.Title = *input.Title
	}
	if input.Description != nil {
		if utf8.RuneCountInString(*input.Description) > models.MaxPollDescriptionLength {
			fields["description"] = []string{fmt.Sprintf("Longer than maximum length %d.", models.MaxPollDescriptionLength)}
		}
		poll.Description = *input.Description
	}
	if len(fields) > 0 {
		return apperrors.ErrInvalidRequest.WithFields(fields)
	}
	if input.Private != nil {
		poll.Private = *input.Private
	}

	if err := s.pollRepo.Update(poll); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// Delete 刪除投票，連同其選項、投票記錄和留言，允許作者或 Moderator 以上
func (s *PollService) Delete(actor *models.User, pollID uint) error {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		return pollError(err)
	}

	if err := authz.Authorize(actor, authz.ActionModerate, authz.Resource{OwnerID: poll.AuthorID}); err != nil {
		return err
	}

	if err := s.pollRepo.DeleteCascade(poll.ID); err != nil {
		return apperrors.ErrDatabase
	}
	return nil
}

// Complete 結束投票，之後不再接受投票
func (s *PollService) Complete(actor *models.User, pollID uint) error {
	return s.setCompleted(actor, pollID, true)
}

// Resume 恢復已結束的投票
func (s *PollService) Resume(actor *models.User, pollID uint) error {
	return s.setCompleted(actor, pollID, false)
}

func (s *PollService) setCompleted(actor *models.User, pollID uint, completed bool) error {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		return pollError(err)
	}

	if err := authz.Authorize(actor, authz.ActionModerate, authz.Resource{OwnerID: poll.AuthorID}); err != nil {
		return err
	}

	poll.Completed = completed
	if err := s.pollRepo.Update(poll); err != nil {
		return apperrors.ErrDatabase
	}

	s.broadcastResults(poll.ID)
	return nil
}

// Vote 對某個選項投票
// 已結束的投票拒絕投票；換票時舊票在同一交易中被刪除，
// 首次在該投票上投票才會獲得積分獎勵
func (s *PollService) Vote(actor *models.User, optionID uint) error {
	option, err := s.pollRepo.FindOption(optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOptionNotFound
		}
		return apperrors.ErrDatabase
	}

	poll, err := s.pollRepo.FindByID(option.PollID)
	if err != nil {
		return pollError(err)
	}

	if poll.Completed {
		return apperrors.ErrPollCompleted
	}

	first, err := s.pollRepo.CastVote(actor.ID, option, models.PointsVote)
	if err != nil {
		return apperrors.ErrDatabase
	}
	if first {
		actor.Points += models.PointsVote
	}

	s.broadcastResults(poll.ID)
	return nil
}

// Results 計算投票的即時結果
func (s *PollService) Results(pollID uint) (*PollResults, error) {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		return nil, pollError(err)
	}
	return buildResults(poll), nil
}

func (s *PollService) broadcastResults(pollID uint) {
	results, err := s.Results(pollID)
	if err != nil {
		return
	}
	s.results.Broadcast(pollID, results)
}

func buildResults(poll *models.Poll) *PollResults {
	results := &PollResults{
		PollID:    poll.ID,
		Completed: poll.Completed,
	}
	for _, option := range poll.Options {
		count := len(option.Votes)
		results.TotalVotes += count
		results.Options = append(results.Options, OptionResult{
			OptionID: option.ID,
			Title:    option.Title,
			Votes:    count,
		})
	}
	return results
}

// validatePollInput 檢查創建投票的欄位，回傳每個欄位的錯誤訊息
// 長度限制按字符數計算，不是字節數
func validatePollInput(input CreatePollInput) map[string][]string {
	fields := map[string][]string{}

	if input.Title == "" || utf8.RuneCountInString(input.Title) > models.MaxPollTitleLength {
		fields["title"] = []string{fmt.Sprintf("Length must be between 1 and %d.", models.MaxPollTitleLength)}
	}
	if utf8.RuneCountInString(input.Description) > models.MaxPollDescriptionLength {
		fields["description"] = []string{fmt.Sprintf("Longer than maximum length %d.", models.MaxPollDescriptionLength)}
	}
	if len(input.Options) < models.MinOptionsCount || len(input.Options) > models.MaxOptionsCount {
		fields["options"] = []string{fmt.Sprintf("Options count must be between %d and %d.",
			models.MinOptionsCount, models.MaxOptionsCount)}
	}
	for _, title := range input.Options {
		if title == "" || utf8.RuneCountInString(title) > models.MaxOptionTitleLength {
			fields["options"] = append(fields["options"],
				fmt.Sprintf("Every option's length must be between 1 and %d.", models.MaxOptionTitleLength))
			break
		}
	}

	return fields
}

func canModerate(actor *models.User, ownerID uint) bool {
	return actor != nil && (actor.ID == ownerID || models.IsAtLeast(actor.Group, models.GroupModerator.ID))
}

func pollError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrPollNotFound
	}
	return apperrors.ErrDatabase
}
