package registry

import (
	"crypto/rand"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"literature/internal/game"
	"literature/internal/room"
)

// GameTypes lists the supported game types.
var GameTypes = []string{"literature"}

// RoomInfo is the lightweight descriptor returned by listings.
type RoomInfo struct {
	RoomID   string `json:"room_id"`
	GameType string `json:"game_type"`
}

// Registry is the process-wide index from room code to room. Rooms are
// kept for the life of the process; the public pre-seeded rooms in
// particular are never reclaimed.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*room.Room
	codeLength int
	log        *zap.Logger
}

// New creates a registry and pre-seeds publicPerType rooms for every
// supported game type so clients can discover them without REST calls.
func New(codeLength, publicPerType int, log *zap.Logger) *Registry {
	r := &Registry{
		rooms:      make(map[string]*room.Room),
		codeLength: codeLength,
		log:        log,
	}
	for _, gt := range GameTypes {
		for i := 1; i <= publicPerType; i++ {
			id := fmt.Sprintf("PUBLIC-%s-%d", gt, i)
			r.rooms[id] = room.New(id, gt, log)
		}
	}
	return r
}

// CreateRoom creates a fresh room. An empty roomID gets a generated
// code, retried on collision.
func (r *Registry) CreateRoom(gameType, roomID string) (*room.Room, error) {
	if !validGameType(gameType) {
		return nil, game.ErrInvalidArgument("unsupported game type %q", gameType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if roomID == "" {
		for i := 0; i < 10; i++ {
			code := generateRoomCode(r.codeLength)
			if _, exists := r.rooms[code]; !exists {
				roomID = code
				break
			}
		}
		if roomID == "" {
			return nil, game.ErrIllegalState("could not generate a unique room code")
		}
	} else if _, exists := r.rooms[roomID]; exists {
		return nil, game.ErrInvalidArgument("room %s already exists", roomID)
	}

	rm := room.New(roomID, gameType, r.log)
	r.rooms[roomID] = rm
	r.log.Info("room created",
		zap.String("room_id", roomID),
		zap.String("game_type", gameType))
	return rm, nil
}

// GetRoom looks up a room by code.
func (r *Registry) GetRoom(roomID string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, game.ErrNotFound("room %s not found", roomID)
	}
	return rm, nil
}

// Dispatch routes an action to the named room.
func (r *Registry) Dispatch(roomID string, a room.Action) error {
	rm, err := r.GetRoom(roomID)
	if err != nil {
		return err
	}
	return rm.Dispatch(a)
}

// ListAvailableRooms returns descriptors for every room.
func (r *Registry) ListAvailableRooms() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(r.rooms))
	for _, rm := range r.rooms {
		out = append(out, RoomInfo{RoomID: rm.ID(), GameType: rm.GameType()})
	}
	return out
}

func validGameType(gt string) bool {
	for _, known := range GameTypes {
		if gt == known {
			return true
		}
	}
	return false
}

// generateRoomCode returns length random uppercase-alphanumeric characters.
func generateRoomCode(length int) string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}

	return string(b)
}
