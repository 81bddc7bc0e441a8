package ws

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Vinay400/chat-buddy/internal/hub"
	"github.com/Vinay400/chat-buddy/internal/metrics"
)

// TokenVerifier checks a bearer credential and returns the verified
// username. Satisfied by *auth.Service.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Handler upgrades authenticated HTTP requests to WebSocket sessions and
// hands them to the coordinator.
type Handler struct {
	log         zerolog.Logger
	coordinator *hub.Coordinator
	verifier    TokenVerifier
	upgrader    websocket.Upgrader
}

// NewHandler creates a WebSocket handler. With an empty origins list any
// origin is accepted; otherwise the Origin header must match exactly
// (requests without an Origin header, e.g. non-browser clients, pass).
func NewHandler(logger zerolog.Logger, coordinator *hub.Coordinator, verifier TokenVerifier, allowedOrigins []string) *Handler {
	h := &Handler{
		log:         logger,
		coordinator: coordinator,
		verifier:    verifier,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeHTTP authenticates the request, upgrades it, and runs the session.
// Connections without a valid credential are refused before any room state
// is touched.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		metrics.AuthFailures.WithLabelValues("handshake").Inc()
		h.log.Warn().Str("remote_addr", r.RemoteAddr).Msg("connection rejected: no token provided")
		http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
		return
	}

	username, err := h.verifier.VerifyToken(token)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("handshake").Inc()
		h.log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("connection rejected: invalid token")
		http.Error(w, `{"error":"invalid credential"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("upgrade failed")
		return
	}

	client := NewClient(uuid.NewString(), username, conn, h.coordinator, h.log)
	h.coordinator.Connect(client)
	go client.Run()
}

// bearerToken pulls the credential from the token query parameter or the
// Authorization header.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}
