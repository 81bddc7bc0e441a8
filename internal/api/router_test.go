package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Vinay400/chat-buddy/internal/archive"
	"github.com/Vinay400/chat-buddy/internal/auth"
	"github.com/Vinay400/chat-buddy/internal/handlers"
	"github.com/Vinay400/chat-buddy/internal/hub"
	"github.com/Vinay400/chat-buddy/internal/models"
	"github.com/Vinay400/chat-buddy/internal/store"
	"github.com/Vinay400/chat-buddy/internal/ws"
)

// memoryUserStore is an in-process UserStore for router tests.
type memoryUserStore struct {
	users map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*models.User)}
}

func (s *memoryUserStore) Close()                         {}
func (s *memoryUserStore) Ping(ctx context.Context) error { return nil }

func (s *memoryUserStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if _, ok := s.users[username]; ok {
		return nil, store.ErrUserExists
	}
	user := &models.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users[username] = user
	return user, nil
}

func (s *memoryUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users[username], nil
}

func (s *memoryUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

// newTestServer assembles the full router the way cmd/server does.
func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager) {
	t.Helper()

	logger := zerolog.Nop()
	users := newMemoryUserStore()
	arch := archive.NewMemoryArchive()
	tokens := auth.NewTokenManager("test-secret")
	authSvc := auth.NewService(users, tokens)
	coordinator := hub.NewCoordinator(logger, arch)
	wsHandler := ws.NewHandler(logger, coordinator, authSvc, nil)
	h := handlers.NewHandler(authSvc, users, arch, coordinator)

	srv := httptest.NewServer(NewRouter(logger, h, wsHandler, nil))
	t.Cleanup(srv.Close)
	t.Cleanup(coordinator.Shutdown)
	return srv, tokens
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

// The upgrade must survive the full middleware chain, not just a bare mux.
func TestRouterUpgradesWebSocket(t *testing.T) {
	req := require.New(t)
	srv, tokens := newTestServer(t)

	token, err := tokens.Issue("alice")
	req.NoError(err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws?token="+token), nil)
	req.NoError(err, "handshake failed through the assembled router")
	defer conn.Close()
	req.Equal(http.StatusSwitchingProtocols, resp.StatusCode)

	// The connect protocol acknowledges placement in the default room.
	type envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		req.NoError(err, "connection dropped before joined-room arrived")

		var env envelope
		req.NoError(json.Unmarshal(raw, &env))
		if env.Event != hub.EventJoinedRoom {
			continue
		}

		var room string
		req.NoError(json.Unmarshal(env.Data, &room))
		req.Equal(hub.DefaultRoom, room)
		return
	}
}

func TestRouterRejectsUnauthenticatedUpgrade(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws?token=garbage"), nil)
	req.Error(err)
	req.NotNil(resp)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	req.Error(err)
	req.NotNil(resp)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterRegisterAndLogin(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"username":"alice","password":"correct horse battery"}`)
	resp, err := http.Post(srv.URL+"/register", "application/json", body)
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusCreated, resp.StatusCode)

	body = strings.NewReader(`{"username":"alice","password":"correct horse battery"}`)
	resp, err = http.Post(srv.URL+"/login", "application/json", body)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&login))
	req.NotEmpty(login.Token)
}
