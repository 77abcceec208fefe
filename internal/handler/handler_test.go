package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parkhya_chat_server/internal/config"
	"parkhya_chat_server/internal/dao/mysql/dbtest"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/gateway/websocket"
	"parkhya_chat_server/internal/handler"
	"parkhya_chat_server/internal/https_server"
	"parkhya_chat_server/internal/infrastructure/sms"
	"parkhya_chat_server/internal/router"
	"parkhya_chat_server/internal/service"
	"parkhya_chat_server/internal/service/chat/chattest"
	"parkhya_chat_server/pkg/constants"
	"parkhya_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 60)
	if err := handler.InitTrans("en"); err != nil {
		panic(err)
	}
}

type testServer struct {
	engine *gin.Engine
	rec    *chattest.Recorder
}

func newTestServer(t *testing.T) *testServer {
	repos := dbtest.Open(t)
	cache := myredis.NewMemoryCache()
	rec := chattest.NewRecorder()

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Cache:       cache,
		SMS:         sms.NewMockSender(),
		Broadcaster: rec,
		AdminEmails: []string{"root@example.com"},
	})
	hub := websocket.NewHub()
	t.Cleanup(hub.Close)
	gateway := websocket.NewGateway(hub, services.Presence, handler.NewSocketInbound(services.Message), []string{"*"})

	engine := https_server.Init(https_server.Options{
		Router:   router.NewRouter(handler.NewHandlers(services, gateway), cache, nil),
		Cors:     config.CorsConfig{AllowOrigins: []string{"*"}},
		Security: config.SecurityConfig{},
		Mode:     "test",
	})
	return &testServer{engine: engine, rec: rec}
}

type envelope struct {
	Message    string          `json:"message"`
	Error      bool            `json:"error"`
	Status     int             `json:"status"`
	Data       json.RawMessage `json:"data"`
	Pagination map[string]any  `json:"pagination"`
	Details    map[string]any  `json:"details"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// signup 注册并登录，返回用户 id 和 token
func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"fullName": email, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, code, env.Message)
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	return login.User.ID, login.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, env.Error)
	assert.Equal(t, 200, env.Status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestRegisterValidationDetails(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, env.Error)
	assert.Equal(t, "Invalid request parameters", env.Message)
	assert.Contains(t, env.Details, "email")

	s.signup(t, "alice@example.com")
	code, env = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already exists", env.Message)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.True(t, env.Error)

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "alice@example.com")

	code, _ := s.do(t, http.MethodGet, "/api/users/online", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/users/online", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOnlineUsersIsEmptyList(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "alice@example.com")

	code, env := s.do(t, http.MethodGet, "/api/users/online", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestPrivateMessageFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, alice := s.signup(t, "alice@example.com")
	bobID, bob := s.signup(t, "bob@example.com")

	code, env := s.do(t, http.MethodPost, "/api/messages", alice, gin.H{"content": "hi bob", "receiverId": bobID})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var msg struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		SenderID string `json:"senderId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "private", msg.Type)
	assert.Equal(t, aliceID, msg.SenderID)

	events := s.rec.Named(constants.EventNewMessage)
	require.Len(t, events, 1)
	assert.True(t, events[0].Relayed)

	code, env = s.do(t, http.MethodGet, "/api/messages?type=private&receiverId="+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Pagination["totalMessages"])
	assert.EqualValues(t, 1, env.Pagination["page"])

	// 只有发送者能修改
	code, _ = s.do(t, http.MethodPut, "/api/messages/"+msg.ID, bob, gin.H{"content": "edited"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodPut, "/api/messages/"+msg.ID, alice, gin.H{"content": "edited"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPut, "/api/messages/seen/"+msg.ID, bob, nil)
	assert.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodGet, "/api/messages/seen/"+msg.ID, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), bobID)

	code, _ = s.do(t, http.MethodPost, "/api/messages/"+msg.ID+"/reactions", bob, gin.H{"emoji": "👍"})
	assert.Equal(t, http.StatusOK, code)
	code, env = s.do(t, http.MethodGet, "/api/messages/"+msg.ID+"/reactions", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "👍")

	code, _ = s.do(t, http.MethodDelete, "/api/messages/"+msg.ID, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/messages/"+msg.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMessageErrors(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signup(t, "alice@example.com")

	code, env := s.do(t, http.MethodPut, "/api/messages/abc", alice, gin.H{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid message id", env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/messages", alice, gin.H{"content": "hi", "receiverId": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/api/messages", alice, gin.H{"content": "hi", "type": "channel"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/messages?type=channel", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/messages?receiverId=nobody", alice, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Receiver not found", env.Message)
}

func TestChannelFlow(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.signup(t, "alice@example.com")
	bobID, bob := s.signup(t, "bob@example.com")

	code, env := s.do(t, http.MethodPost, "/api/channels", alice, gin.H{"name": "general"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var ch struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ch))

	code, _ = s.do(t, http.MethodGet, "/api/channels/"+ch.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/channels/"+ch.ID+"/members", alice, gin.H{"userId": "nobody"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodPost, "/api/channels/"+ch.ID+"/members", alice, gin.H{"userId": bobID})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/api/channels/"+ch.ID+"/members", alice, gin.H{"userId": bobID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodPost, "/api/messages", bob, gin.H{"content": "hello all", "type": "channel", "channelId": ch.ID})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodGet, "/api/channels/"+ch.ID+"/messages?page=1&limit=5", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Pagination["totalMessages"])
	assert.EqualValues(t, 5, env.Pagination["limit"])

	code, _ = s.do(t, http.MethodDelete, "/api/channels/"+ch.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodDelete, "/api/channels/"+ch.ID+"/members/"+bobID, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/channels/"+ch.ID, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, s.rec.Named(constants.EventChannelDeleted), 1)
}

func TestUserAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	_, root := s.signup(t, "root@example.com")
	aliceID, alice := s.signup(t, "alice@example.com")

	code, _ := s.do(t, http.MethodDelete, "/api/users/"+aliceID, alice, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(t, http.MethodGet, "/api/users?searchTerm=example", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		TotalUsers int `json:"totalUsers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.TotalUsers)

	code, _ = s.do(t, http.MethodDelete, "/api/users/"+aliceID, root, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/users/"+aliceID, root, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
