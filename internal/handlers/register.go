package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vinay400/chat-buddy/internal/auth"
	"github.com/Vinay400/chat-buddy/internal/metrics"
	"github.com/Vinay400/chat-buddy/internal/store"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse represents the registration response.
type RegisterResponse struct {
	Message string `json:"message"`
}

// Register handles user registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	username := sanitizeUsername(req.Username)
	if username == "" || req.Password == "" {
		h.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	_, err := h.auth.Register(r.Context(), username, req.Password)
	switch {
	case errors.Is(err, store.ErrUserExists):
		h.Error(w, http.StatusConflict, "username already exists")
		return
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.Error(w, http.StatusInternalServerError, "server error during registration")
		return
	}

	metrics.UsersRegistered.Inc()
	h.JSON(w, http.StatusCreated, RegisterResponse{Message: "user registered successfully"})
}
