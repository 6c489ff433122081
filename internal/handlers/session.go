package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"literature/internal/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Game clients connect from arbitrary origins; the per-user token in
	// the URL is the admission check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateMessage is the broadcast frame: one per accepted action, per
// connected recipient.
type stateMessage struct {
	Success      bool          `json:"success"`
	CurrentState room.Snapshot `json:"currentState"`
}

// errorMessage goes to the originating consumer only. Disconnect marks
// the frame that precedes a server-side close.
type errorMessage struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Disconnect bool   `json:"disconnect,omitempty"`
}

// RoomSocket handles GET /ws/room/{room_id}/{user_token}/{username}.
// It upgrades the connection and runs a session consumer until the
// client disconnects.
func (h *Handler) RoomSocket(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room_id")
	token := chi.URLParam(r, "user_token")
	name := chi.URLParam(r, "username")
	if roomID == "" || token == "" || name == "" {
		http.Error(w, "room_id, user_token and username are required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &session{
		roomID: roomID,
		token:  token,
		name:   name,
		conn:   conn,
		h:      h,
		errs:   make(chan errorMessage, 4),
		log: h.log.With(
			zap.String("room_id", roomID),
			zap.String("player_name", name)),
	}
	s.run()
}

// session is one live connection's consumer. It bridges transport
// events to room actions and renders broadcasts for its recipient.
// It deliberately holds only the room code and token between actions.
type session struct {
	roomID string
	token  string
	name   string
	conn   *websocket.Conn
	h      *Handler
	errs   chan errorMessage
	log    *zap.Logger
}

func (s *session) run() {
	rm, err := s.h.registry.GetRoom(s.roomID)
	if err != nil {
		s.refuse(err.Error())
		return
	}

	// Subscribe before joining so the consumer's first delivered
	// snapshot is its own add_player broadcast.
	sub := rm.Subscribe(s.token)
	if err := rm.Dispatch(room.AddPlayer{Token: s.token, Name: s.name}); err != nil {
		rm.Unsubscribe(sub)
		s.refuse(err.Error())
		return
	}
	s.log.Info("session started")

	go s.writePump(sub)
	s.readPump(rm)

	// Disconnect is an action like any other: the roster change is
	// validated, applied and broadcast to the remaining players.
	if err := rm.Dispatch(room.ExitRoom{Token: s.token}); err != nil {
		s.log.Debug("exit_room on disconnect", zap.Error(err))
	}
	rm.Unsubscribe(sub)
	s.log.Info("session ended")
}

// readPump consumes client frames until the connection drops. Every
// dispatch failure is reported to this client only; accepted actions
// answer through the broadcast path.
func (s *session) readPump(rm *room.Room) {
	cfg := s.h.cfg.Server
	s.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("connection closed", zap.Error(err))
			}
			return
		}

		act, err := room.ParseAction(data, s.token)
		if err != nil {
			s.reportError(err)
			continue
		}
		if err := rm.Dispatch(act); err != nil {
			s.reportError(err)
		}
	}
}

// writePump owns the connection's write side: snapshots from the room,
// error frames from the read loop, and keepalive pings.
func (s *session) writePump(sub *room.Subscriber) {
	cfg := s.h.cfg.Server
	pingPeriod := cfg.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-sub.Ch:
			if !ok {
				_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := s.conn.WriteJSON(stateMessage{Success: true, CurrentState: snap}); err != nil {
				return
			}
		case msg := <-s.errs:
			_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) reportError(err error) {
	select {
	case s.errs <- errorMessage{Success: false, Error: err.Error()}:
	default:
		s.log.Warn("error queue full, dropping error", zap.Error(err))
	}
}

// refuse rejects a connect attempt: one error frame with disconnect set,
// then close. The only error path that terminates the connection.
func (s *session) refuse(msg string) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.h.cfg.Server.WriteWait))
	_ = s.conn.WriteJSON(errorMessage{Success: false, Error: msg, Disconnect: true})
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""))
	_ = s.conn.Close()
	s.log.Info("connection refused", zap.String("reason", msg))
}
