// Package auth implements account registration, credential verification,
// and the signed tokens presented on realtime connections.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Vinay400/chat-buddy/internal/models"
	"github.com/Vinay400/chat-buddy/internal/store"
)

var (
	// ErrMissingFields is returned when username or password is empty.
	ErrMissingFields = errors.New("username and password are required")
	// ErrInvalidCredentials is returned when login credentials don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

const bcryptCost = 10

// Service handles registration and login against the user store.
type Service struct {
	users  store.UserStore
	tokens *TokenManager
}

// NewService creates an auth service backed by the given user store.
func NewService(users store.UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed time-limited token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingFields
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username)
}

// VerifyToken validates a credential and returns the username it carries.
// It satisfies the identity check performed at realtime-connection setup.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	return s.tokens.Verify(tokenString)
}
