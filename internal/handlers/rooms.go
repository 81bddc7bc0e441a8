package handlers

import (
	"net/http"

	"github.com/Vinay400/chat-buddy/internal/hub"
)

// RoomListResponse represents the rooms list response.
type RoomListResponse struct {
	Rooms []hub.RoomInfo `json:"rooms"`
	Total int            `json:"total"`
}

// ListRooms returns every live room with its current roster.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.coordinator.Snapshot()
	h.JSON(w, http.StatusOK, RoomListResponse{Rooms: rooms, Total: len(rooms)})
}
