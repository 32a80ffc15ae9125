package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickpolls/internal/models"
	"quickpolls/internal/repository"
	"quickpolls/internal/service"
	"quickpolls/internal/storage"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *storage.PostgresDB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	services := service.NewServices(repository.NewRepositories(store))

	r := gin.New()
	SetupRoutes(r, services)
	return r, store
}

// doRequest 發送一個 JSON 請求並回傳響應
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no error object: %q", w.Body.String())
	}
	return int(errObj["code"].(float64))
}

// registerAndLogin 註冊並登入，回傳 token
func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s failed: %d %s", username, w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s failed: %d %s", username, w.Code, w.Body.String())
	}

	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("login %s returned empty token", username)
	}
	return token
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":    "not-an-email",
		"username": "abc", // 太短
		"password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != 40001 {
		t.Errorf("error code = %d, want 40001", code)
	}

	body := decodeBody(t, w)
	fields := body["error"].(map[string]interface{})["fields"].(map[string]interface{})
	for _, field := range []string{"email", "username"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("fields missing %q: %v", field, fields)
		}
	}
}

func TestRegisterConflict(t *testing.T) {
	r, _ := setupTestRouter(t)
	registerAndLogin(t, r, "alice42")

	w := doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email":    "alice42@example.com",
		"username": "alice42",
		"password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if code := errorCode(t, w); code != 40901 {
		t.Errorf("error code = %d, want 40901", code)
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, path := range []string{"/api/polls", "/api/users/alice42"} {
		w := doRequest(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, w.Code)
		}
	}
}

func TestPollLifecycleFlow(t *testing.T) {
	r, _ := setupTestRouter(t)
	authorToken := registerAndLogin(t, r, "alice42")
	voterToken := registerAndLogin(t, r, "bobby77")

	// 創建投票
	w := doRequest(t, r, http.MethodPost, "/api/polls", authorToken, gin.H{
		"title":   "Lunch?",
		"options": []string{"Pizza", "Sushi"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create poll failed: %d %s", w.Code, w.Body.String())
	}

	poll := decodeBody(t, w)["poll"].(map[string]interface{})
	pollID := int(poll["ID"].(float64))
	options := poll["options"].([]interface{})
	firstOptionID := int(options[0].(map[string]interface{})["ID"].(float64))

	// 投票
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/polls/vote/%d", firstOptionID), voterToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vote failed: %d %s", w.Code, w.Body.String())
	}

	// 結束投票後再投票要拿到 StateConflict
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/polls/%d/complete", pollID), authorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete failed: %d %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/polls/vote/%d", firstOptionID), voterToken, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("vote on completed status = %d, want 409", w.Code)
	}
	if code := errorCode(t, w); code != 40902 {
		t.Errorf("error code = %d, want 40902", code)
	}

	// 非作者不能恢復
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/polls/%d/resume", pollID), voterToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger resume status = %d, want 403", w.Code)
	}

	// 作者恢復後投票成功
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/polls/%d/resume", pollID), authorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resume failed: %d %s", w.Code, w.Body.String())
	}
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/polls/vote/%d", firstOptionID), voterToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("vote after resume failed: %d %s", w.Code, w.Body.String())
	}
}

func TestUserPollsRoute(t *testing.T) {
	r, _ := setupTestRouter(t)
	authorToken := registerAndLogin(t, r, "alice42")
	strangerToken := registerAndLogin(t, r, "bobby77")

	for _, body := range []gin.H{
		{"title": "Open poll", "options": []string{"A", "B"}},
		{"title": "Secret", "private": true, "options": []string{"A", "B"}},
	} {
		w := doRequest(t, r, http.MethodPost, "/api/polls", authorToken, body)
		if w.Code != http.StatusOK {
			t.Fatalf("create poll failed: %d %s", w.Code, w.Body.String())
		}
	}

	// 私密投票不出現在他人看到的列表中
	w := doRequest(t, r, http.MethodGet, "/api/users/alice42/polls", strangerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", w.Code, w.Body.String())
	}
	if got := len(decodeBody(t, w)["polls"].([]interface{})); got != 1 {
		t.Errorf("stranger sees %d polls, want 1", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/users/alice42/polls", authorToken, nil)
	if got := len(decodeBody(t, w)["polls"].([]interface{})); got != 2 {
		t.Errorf("author sees %d polls, want 2", got)
	}
}

func TestModeratorRoutesGated(t *testing.T) {
	r, store := setupTestRouter(t)
	registerAndLogin(t, r, "alice42")
	userToken := registerAndLogin(t, r, "bobby77")

	// 普通用戶被組級別路由閘門擋下
	w := doRequest(t, r, http.MethodGet, "/api/users", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("user list status = %d, want 403", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/api/users/alice42/ban", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("ban status = %d, want 403", w.Code)
	}

	// 提升為 Moderator 後可以操作
	store.Model(&models.User{}).Where("username = ?", "bobby77").
		Update("group", models.GroupModerator.ID)

	w = doRequest(t, r, http.MethodGet, "/api/users", userToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("moderator list status = %d, want 200: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPut, "/api/users/alice42/ban", userToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("moderator ban status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// 被封禁的用戶連 token 都不再可用
	bannedToken := registerAndLogin(t, r, "carol99")
	store.Model(&models.User{}).Where("username = ?", "carol99").Update("banned", true)

	w = doRequest(t, r, http.MethodGet, "/api/polls", bannedToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("banned user status = %d, want 403", w.Code)
	}
	if code := errorCode(t, w); code != 40303 {
		t.Errorf("error code = %d, want 40303", code)
	}
}

func TestCommentFlow(t *testing.T) {
	r, _ := setupTestRouter(t)
	authorToken := registerAndLogin(t, r, "alice42")
	strangerToken := registerAndLogin(t, r, "bobby77")

	w := doRequest(t, r, http.MethodPost, "/api/polls", authorToken, gin.H{
		"title":   "Lunch?",
		"options": []string{"Pizza", "Sushi"},
	})
	poll := decodeBody(t, w)["poll"].(map[string]interface{})
	pollID := int(poll["ID"].(float64))

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/polls/%d/comment", pollID), strangerToken, gin.H{
		"text": "pizza forever",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("comment failed: %d %s", w.Code, w.Body.String())
	}
	commentID := int(decodeBody(t, w)["comment"].(map[string]interface{})["ID"].(float64))

	// 非作者不能修改別人的留言
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID), authorToken, gin.H{
		"text": "hijacked",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger edit status = %d, want 403", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), strangerToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("author delete failed: %d %s", w.Code, w.Body.String())
	}
}
