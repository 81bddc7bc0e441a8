package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Vinay400/chat-buddy/internal/models"
	"github.com/Vinay400/chat-buddy/internal/store"
)

// memoryUserStore is an in-process UserStore for tests.
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
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
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

func newTestService() *Service {
	return NewService(newMemoryUserStore(), NewTokenManager("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	req := require.New(t)
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "correct horse battery")
	req.NoError(err)
	req.Equal("alice", user.Username)
	req.NotEqual("correct horse battery", user.PasswordHash)

	token, err := svc.Login(ctx, "alice", "correct horse battery")
	req.NoError(err)

	username, err := svc.VerifyToken(token)
	req.NoError(err)
	req.Equal("alice", username)
}

func TestRegisterValidation(t *testing.T) {
	req := require.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "longenoughpassword")
	req.ErrorIs(err, ErrMissingFields)

	_, err = svc.Register(ctx, "alice", "")
	req.ErrorIs(err, ErrMissingFields)

	_, err = svc.Register(ctx, "alice", "short")
	req.ErrorIs(err, ErrWeakPassword)
}

func TestRegisterConflict(t *testing.T) {
	req := require.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "correct horse battery")
	req.NoError(err)

	_, err = svc.Register(ctx, "alice", "another password!")
	req.ErrorIs(err, store.ErrUserExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	req := require.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "correct horse battery")
	req.NoError(err)

	_, err = svc.Login(ctx, "alice", "wrong password!!")
	req.ErrorIs(err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "correct horse battery")
	req.ErrorIs(err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret")

	_, err := tm.Verify("not-a-token")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	req := require.New(t)

	token, err := NewTokenManager("secret-a").Issue("alice")
	req.NoError(err)

	_, err = NewTokenManager("secret-b").Verify(token)
	req.ErrorIs(err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret")

	// Hand-roll a token that expired an hour ago with the same key.
	claims := Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	req.NoError(err)

	_, err = tm.Verify(token)
	req.ErrorIs(err, ErrExpiredToken)
}
