package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vinay400/chat-buddy/internal/auth"
	"github.com/Vinay400/chat-buddy/internal/metrics"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the signed time-limited credential.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login handles credential verification and token issuance.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		h.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.AuthFailures.WithLabelValues("login").Inc()
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.Error(w, http.StatusInternalServerError, "server error during login")
		return
	}

	h.JSON(w, http.StatusOK, LoginResponse{Message: "login successful", Token: token})
}
