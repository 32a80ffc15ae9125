package service

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// PollResults 表示一個投票的即時統計
type PollResults struct {
	PollID     uint           `json:"poll_id"`
	Completed  bool           `json:"completed"`
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

// OptionResult 表示單個選項的得票數
type OptionResult struct {
	OptionID uint   `json:"option_id"`
	Title    string `json:"title"`
	Votes    int    `json:"votes"`
}

// ResultsClient 代表一個訂閱即時結果的 WebSocket 連接
type ResultsClient struct {
	Conn     *websocket.Conn
	PollID   uint
	SendChan chan *PollResults // 結果推送通道，用於異步傳送
}

// ResultsManager 管理所有訂閱投票結果的 WebSocket 連接
// 每次有票被接受後，對應投票的所有訂閱者都會收到最新統計
type ResultsManager struct {
	clients    map[uint]map[*ResultsClient]bool // 兩層 map: pollID -> client -> bool
	clientsMux sync.RWMutex                     // 保護 clients map 的讀寫鎖
}

// NewResultsManager 創建並初始化結果推送服務
func NewResultsManager() *ResultsManager {
	return &ResultsManager{
		clients: make(map[uint]map[*ResultsClient]bool),
	}
}

// HandleConnection 處理新的訂閱連接，阻塞直到連接關閉
func (m *ResultsManager) HandleConnection(conn *websocket.Conn, pollID uint, initial *PollResults) {
	client := &ResultsClient{
		Conn:     conn,
		PollID:   pollID,
		SendChan: make(chan *PollResults, 16),
	}

	m.addClient(client)

	// SendChan 不關閉，交給 GC 回收：
	// 廣播端可能還持有斷線前取得的客戶端快照，向已關閉的通道發送會 panic
	defer func() {
		m.removeClient(client)
		conn.Close()
	}()

	// 連上後先推一次當前統計
	if initial != nil {
		client.SendChan <- initial
	}

	go m.writePump(client)
	m.readPump(client)
}

// readPump 只用於偵測客戶端斷線，訂閱者不會發送業務消息
func (m *ResultsManager) readPump(client *ResultsClient) {
	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}
	}
}

// writePump 處理向客戶端推送統計的邏輯
func (m *ResultsManager) writePump(client *ResultsClient) {
	// 心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case results := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteJSON(results); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast 向訂閱了該投票的所有客戶端推送最新統計
func (m *ResultsManager) Broadcast(pollID uint, results *PollResults) {
	m.clientsMux.RLock()
	clients := m.clients[pollID]
	m.clientsMux.RUnlock()

	for client := range clients {
		select {
		case client.SendChan <- results:
			// 已加入推送隊列
		default:
			// 客戶端隊列已滿，關閉連接
			m.removeClient(client)
			client.Conn.Close()
		}
	}
}

// SubscriberCount 獲取訂閱某投票的在線客戶端數量
func (m *ResultsManager) SubscriberCount(pollID uint) int {
	m.clientsMux.RLock()
	defer m.clientsMux.RUnlock()

	return len(m.clients[pollID])
}

func (m *ResultsManager) addClient(client *ResultsClient) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if m.clients[client.PollID] == nil {
		m.clients[client.PollID] = make(map[*ResultsClient]bool)
	}
	m.clients[client.PollID][client] = true
}

func (m *ResultsManager) removeClient(client *ResultsClient) {
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	if clients, ok := m.clients[client.PollID]; ok {
		delete(clients, client)
		// 沒有訂閱者時清掉這個投票的記錄
		if len(clients) == 0 {
			delete(m.clients, client.PollID)
		}
	}
}
