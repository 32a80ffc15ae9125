package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/service"
)

// PollHandler 處理與投票相關的請求
type PollHandler struct {
	pollService    *service.PollService
	commentService *service.CommentService
}

// NewPollHandler 創建一個新的 PollHandler 實例
func NewPollHandler(pollService *service.PollService, commentService *service.CommentService) *PollHandler {
	return &PollHandler{pollService: pollService, commentService: commentService}
}

// CreatePollInput 創建投票的請求
type CreatePollInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Private     bool     `json:"private"`
	Options     []string `json:"options" binding:"required"`
}

// UpdatePollInput 更新投票的請求，所有欄位都是可選的
type UpdatePollInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
}

// CommentInput 留言請求
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

// ListPolls 投票列表，私密投票已被過濾
func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.pollService.List(currentUser(c))
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"polls": polls})
}

// GetPoll 查看單個投票，包含選項、得票和留言
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	poll, err := h.pollService.Get(currentUser(c), pollID)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"poll": poll})
}

// CreatePoll 創建投票，會扣除積分
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var input CreatePollInput
	if !bindJSON(c, &input) {
		return
	}

	poll, err := h.pollService.Create(currentUser(c), service.CreatePollInput{
		Title:       input.Title,
		Description: input.Description,
		Private:     input.Private,
		Options:     input.Options,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"poll": poll})
}

// UpdatePoll 更新投票
func (h *PollHandler) UpdatePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	var input UpdatePollInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.pollService.Update(currentUser(c), pollID, service.UpdatePollInput{
		Title:       input.Title,
		Description: input.Description,
		Private:     input.Private,
	})
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// DeletePoll 刪除投票及其選項、投票記錄和留言
func (h *PollHandler) DeletePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	if err := h.pollService.Delete(currentUser(c), pollID); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// CompletePoll 結束投票
func (h *PollHandler) CompletePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	if err := h.pollService.Complete(currentUser(c), pollID); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// ResumePoll 恢復已結束的投票
func (h *PollHandler) ResumePoll(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	if err := h.pollService.Resume(currentUser(c), pollID); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// Vote 對選項投票，換票時舊票自動作廢
func (h *PollHandler) Vote(c *gin.Context) {
	optionID, ok := parseID(c, "optionId", apperrors.ErrOptionNotFound)
	if !ok {
		return
	}

	if err := h.pollService.Vote(currentUser(c), optionID); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// LeaveComment 在投票下留言
func (h *PollHandler) LeaveComment(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.commentService.Create(currentUser(c), pollID, input.Text)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"comment": comment})
}

// parseID 解析路徑參數中的數字 ID，失敗時輸出對應的 NotFound 錯誤
func parseID(c *gin.Context, name string, notFound *apperrors.Error) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		Fail(c, notFound)
		return 0, false
	}
	return uint(id), true
}
