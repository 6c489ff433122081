package handlers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"literature/internal/game"
	"literature/internal/room"
)

// frame covers both broadcast and error messages.
type frame struct {
	Success      bool           `json:"success"`
	Error        string         `json:"error"`
	Disconnect   bool           `json:"disconnect"`
	CurrentState *room.Snapshot `json:"currentState"`
}

func dial(t *testing.T, httpURL, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "dial %s", path)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// readUntil drains frames until pred matches, failing on deadline.
func readUntil(t *testing.T, conn *websocket.Conn, pred func(frame) bool) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if pred(f) {
			return f
		}
	}
}

func TestSocketJoinSnapshot(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := h.Registry().CreateRoom("literature", "WSROOM")
	require.NoError(t, err)

	conn := dial(t, srv.URL, "/ws/room/WSROOM/tok1/Alice")

	f := readFrame(t, conn)
	require.True(t, f.Success)
	require.NotNil(t, f.CurrentState)
	assert.Equal(t, "WSROOM", f.CurrentState.RoomID)
	assert.Len(t, f.CurrentState.ConnectedPlayers, 1)
	assert.NotEmpty(t, f.CurrentState.ReceiverID)
	assert.Equal(t, f.CurrentState.ReceiverID, f.CurrentState.HostID, "first connector is host")
	assert.Equal(t, game.StateNotStarted, f.CurrentState.Game.State)
}

func TestSocketBroadcastsJoins(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := h.Registry().CreateRoom("literature", "WSROOM")
	require.NoError(t, err)

	alice := dial(t, srv.URL, "/ws/room/WSROOM/tok1/Alice")
	readFrame(t, alice) // own join

	dial(t, srv.URL, "/ws/room/WSROOM/tok2/Bob")

	f := readUntil(t, alice, func(f frame) bool {
		return f.CurrentState != nil && len(f.CurrentState.ConnectedPlayers) == 2
	})
	assert.True(t, f.Success)
	assert.NotEqual(t, f.CurrentState.ReceiverID, "", "snapshot addressed to Alice")
}

func TestSocketDisconnectBroadcast(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := h.Registry().CreateRoom("literature", "WSROOM")
	require.NoError(t, err)

	alice := dial(t, srv.URL, "/ws/room/WSROOM/tok1/Alice")
	bob := dial(t, srv.URL, "/ws/room/WSROOM/tok2/Bob")
	readFrame(t, bob)

	readUntil(t, alice, func(f frame) bool {
		return f.CurrentState != nil && len(f.CurrentState.ConnectedPlayers) == 2
	})

	bob.Close()

	f := readUntil(t, alice, func(f frame) bool {
		return f.CurrentState != nil && len(f.CurrentState.ConnectedPlayers) == 1
	})
	assert.True(t, f.Success)
}

func TestSocketUnknownRoomRefused(t *testing.T) {
	srv, _ := newTestServer(t)

	conn := dial(t, srv.URL, "/ws/room/NOSUCH/tok1/Alice")

	f := readFrame(t, conn)
	assert.False(t, f.Success)
	assert.True(t, f.Disconnect)
	assert.Contains(t, f.Error, "NOSUCH")

	// The server closes after the refusal frame.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestSocketRejectedActionsAnswerSender(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := h.Registry().CreateRoom("literature", "WSROOM")
	require.NoError(t, err)

	alice := dial(t, srv.URL, "/ws/room/WSROOM/tok1/Alice")
	readFrame(t, alice)
	bob := dial(t, srv.URL, "/ws/room/WSROOM/tok2/Bob")
	readFrame(t, bob)

	// Unknown action type.
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte(`{"type":"dance"}`)))
	f := readUntil(t, bob, func(f frame) bool { return !f.Success })
	assert.False(t, f.Disconnect, "rejected action does not close the connection")
	assert.Contains(t, f.Error, "dance")

	// Rule violation: Bob is not the host.
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte(`{"type":"start_game"}`)))
	f = readUntil(t, bob, func(f frame) bool { return !f.Success })
	assert.Contains(t, f.Error, "host")

	// Alice saw neither: her next frame is still the 2-player roster at
	// most, never an error.
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte(`{"type":"exit_room"}`)))
	f = readUntil(t, alice, func(f frame) bool {
		return f.CurrentState != nil && len(f.CurrentState.ConnectedPlayers) == 1
	})
	assert.True(t, f.Success)
}

func TestSocketGamePrivacy(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := h.Registry().CreateRoom("literature", "WSROOM")
	require.NoError(t, err)

	conns := make([]*websocket.Conn, 6)
	for i := range conns {
		path := fmt.Sprintf("/ws/room/WSROOM/tok%d/Player%d", i+1, i+1)
		conns[i] = dial(t, srv.URL, path)
	}

	// Wait for the full roster everywhere before starting.
	for _, conn := range conns {
		readUntil(t, conn, func(f frame) bool {
			return f.CurrentState != nil && len(f.CurrentState.ConnectedPlayers) == 6
		})
	}

	// tok1 connected first and is the host.
	require.NoError(t, conns[0].WriteMessage(websocket.TextMessage, []byte(`{"type":"start_game"}`)))

	for i, conn := range conns {
		f := readUntil(t, conn, func(f frame) bool {
			return f.CurrentState != nil && f.CurrentState.Game.State == game.StateInProgress
		})

		require.NotEmpty(t, f.CurrentState.ReceiverID, "conn %d", i)
		require.NotNil(t, f.CurrentState.Game.CurrentPlayerID)
		for _, ps := range f.CurrentState.Game.Players {
			assert.Equal(t, 9, ps.CardCount, "conn %d player %s", i, ps.ID)
			if ps.ID == f.CurrentState.ReceiverID {
				assert.Len(t, ps.Hand, 9, "conn %d own hand", i)
			} else {
				assert.Empty(t, ps.Hand, "conn %d sees hand of %s", i, ps.ID)
			}
		}
	}
}

func TestSocketMissingParams(t *testing.T) {
	srv, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/room/WSROOM/tok1"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if resp != nil {
		defer resp.Body.Close()
		assert.NotEqual(t, 101, resp.StatusCode)
	}
}
