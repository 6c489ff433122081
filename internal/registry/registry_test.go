package registry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"literature/internal/game"
	"literature/internal/room"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(6, 5, zap.NewNop())
}

func TestPublicRoomsPreSeeded(t *testing.T) {
	reg := newTestRegistry(t)

	infos := reg.ListAvailableRooms()
	require.Len(t, infos, 5)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("PUBLIC-literature-%d", i)
		rm, err := reg.GetRoom(id)
		require.NoError(t, err, "room %s", id)
		assert.Equal(t, "literature", rm.GameType())
	}
}

func TestCreateRoomGeneratedCode(t *testing.T) {
	reg := newTestRegistry(t)

	rm, err := reg.CreateRoom("literature", "")
	require.NoError(t, err)
	assert.Len(t, rm.ID(), 6)
	for _, c := range rm.ID() {
		assert.True(t, strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", c),
			"unexpected character %q in room code %s", c, rm.ID())
	}

	got, err := reg.GetRoom(rm.ID())
	require.NoError(t, err)
	assert.Same(t, rm, got)
}

func TestCreateRoomExplicitID(t *testing.T) {
	reg := newTestRegistry(t)

	rm, err := reg.CreateRoom("literature", "FRIDAY")
	require.NoError(t, err)
	assert.Equal(t, "FRIDAY", rm.ID())

	_, err = reg.CreateRoom("literature", "FRIDAY")
	assert.True(t, game.IsKind(err, game.KindInvalidArgument), "duplicate code")
}

func TestCreateRoomUnknownGameType(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.CreateRoom("poker", "")
	assert.True(t, game.IsKind(err, game.KindInvalidArgument))
}

func TestGetRoomNotFound(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.GetRoom("NOSUCH")
	assert.True(t, game.IsKind(err, game.KindNotFound))
}

func TestDispatchRouting(t *testing.T) {
	reg := newTestRegistry(t)
	rm, err := reg.CreateRoom("literature", "")
	require.NoError(t, err)

	require.NoError(t, reg.Dispatch(rm.ID(), room.AddPlayer{Token: "t1", Name: "Alice"}))
	assert.Len(t, rm.Snapshot("t1").ConnectedPlayers, 1)

	err = reg.Dispatch("NOSUCH", room.AddPlayer{Token: "t1", Name: "Alice"})
	assert.True(t, game.IsKind(err, game.KindNotFound))
}
