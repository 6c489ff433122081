package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"literature/internal/config"
	"literature/internal/game"
	"literature/internal/registry"
)

// Handler holds dependencies for HTTP and WebSocket handlers.
type Handler struct {
	registry *registry.Registry
	cfg      *config.ServerConfig
	log      *zap.Logger
}

// New creates a handler.
func New(reg *registry.Registry, cfg *config.ServerConfig, log *zap.Logger) *Handler {
	return &Handler{
		registry: reg,
		cfg:      cfg,
		log:      log,
	}
}

// Registry returns the handler's registry (for testing).
func (h *Handler) Registry() *registry.Registry {
	return h.registry
}

type createRoomRequest struct {
	GameType string `json:"game_type"`
	RoomID   string `json:"room_id"`
}

// CreateRoom handles POST /api/create-room.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rm, err := h.registry.CreateRoom(req.GameType, req.RoomID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"room_id": rm.ID()})
}

// ListRooms handles GET /api/list-rooms.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": h.registry.ListAvailableRooms(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusForError(err error) int {
	switch game.KindOf(err) {
	case game.KindInvalidArgument:
		return http.StatusBadRequest
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindRuleViolation, game.KindIllegalState, game.KindPreconditionFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
