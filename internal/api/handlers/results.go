package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quickpolls/internal/apperrors"
	"quickpolls/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// ResultsHandler 處理即時結果訂閱的 WebSocket 連接
type ResultsHandler struct {
	resultsManager *service.ResultsManager
	pollService    *service.PollService
}

// NewResultsHandler 創建一個新的 ResultsHandler 實例
func NewResultsHandler(resultsManager *service.ResultsManager, pollService *service.PollService) *ResultsHandler {
	return &ResultsHandler{
		resultsManager: resultsManager,
		pollService:    pollService,
	}
}

// Subscribe 訂閱某個投票的即時結果
// 連上後先收到當前統計，之後每次有票被接受都會收到更新
func (h *ResultsHandler) Subscribe(c *gin.Context) {
	pollID, ok := parseID(c, "id", apperrors.ErrPollNotFound)
	if !ok {
		return
	}

	// 升級前先確認投票存在，讓客戶端拿到正常的錯誤響應
	initial, err := h.pollService.Results(pollID)
	if err != nil {
		Fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Fail(c, apperrors.ErrDatabase)
		return
	}

	h.resultsManager.HandleConnection(conn, pollID, initial)
}
