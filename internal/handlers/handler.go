package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/Vinay400/chat-buddy/internal/archive"
	"github.com/Vinay400/chat-buddy/internal/auth"
	"github.com/Vinay400/chat-buddy/internal/hub"
	"github.com/Vinay400/chat-buddy/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	auth        *auth.Service
	users       store.UserStore
	archive     archive.Archive
	coordinator *hub.Coordinator
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(authSvc *auth.Service, users store.UserStore, arch archive.Archive, coordinator *hub.Coordinator) *Handler {
	return &Handler{auth: authSvc, users: users, archive: arch, coordinator: coordinator}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// sanitizeUsername trims and limits a username to 100 characters, removing
// control characters.
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)

	// Remove control characters
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	// Limit to 100 characters
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
