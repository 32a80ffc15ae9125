package handlers

import (
	"github.com/gin-gonic/gin"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/service"
)

// CommentHandler 處理與留言相關的請求
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 創建一個新的 CommentHandler 實例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// GetComment 查看單條留言
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := parseID(c, "id", apperrors.ErrCommentNotFound)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(commentID)
	if err != nil {
		Fail(c, err)
		return
	}

	Success(c, gin.H{"comment": comment})
}

// UpdateComment 修改留言，允許作者或 Moderator 以上
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := parseID(c, "id", apperrors.ErrCommentNotFound)
	if !ok {
		return
	}

	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.commentService.Update(currentUser(c), commentID, input.Text); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}

// DeleteComment 刪除留言，允許作者或 Moderator 以上
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "id", apperrors.ErrCommentNotFound)
	if !ok {
		return
	}

	if err := h.commentService.Delete(currentUser(c), commentID); err != nil {
		Fail(c, err)
		return
	}

	Success(c, nil)
}
