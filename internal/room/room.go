package room

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"literature/internal/game"
)

// Snapshot is the full, privacy-filtered view of a room rendered for
// one recipient. It is the payload of every broadcast.
type Snapshot struct {
	RoomID           string         `json:"room_id"`
	GameType         string         `json:"type"`
	HostID           string         `json:"hostId"`
	ReceiverID       string         `json:"receiverId"`
	ConnectedPlayers []string       `json:"connectedPlayers"`
	Game             game.GameState `json:"game"`
}

// Subscriber is one consumer's outbound snapshot queue. The room pushes
// a rendered snapshot per accepted action; the consumer drains Ch.
type Subscriber struct {
	token string
	Ch    chan Snapshot
}

const subscriberBuffer = 16

// Room is the authorization layer and single serialization point for
// all mutations of one game. The mutex is held across dispatch and the
// post-commit snapshot fan-out, so every subscriber observes snapshots
// in action order.
type Room struct {
	mu        sync.Mutex
	id        string
	gameType  string
	hostToken string
	connected map[string]*game.Player // token -> player
	game      *game.Game
	subs      map[*Subscriber]struct{}
	log       *zap.Logger
}

// New creates an empty room with a fresh game in NOT_STARTED.
func New(id, gameType string, log *zap.Logger) *Room {
	return &Room{
		id:        id,
		gameType:  gameType,
		connected: make(map[string]*game.Player),
		game:      game.NewGame(id),
		subs:      make(map[*Subscriber]struct{}),
		log:       log.With(zap.String("room_id", id)),
	}
}

// ID returns the room code.
func (r *Room) ID() string { return r.id }

// GameType returns the room's game type.
func (r *Room) GameType() string { return r.gameType }

// Subscribe registers a consumer for broadcasts addressed to token.
func (r *Room) Subscribe(token string) *Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := &Subscriber{token: token, Ch: make(chan Snapshot, subscriberBuffer)}
	r.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (r *Room) Unsubscribe(sub *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub]; ok {
		delete(r.subs, sub)
		close(sub.Ch)
	}
}

// Dispatch validates and applies one action. On success every
// subscriber receives a freshly rendered snapshot before the next
// action can run. On failure no state changes and nothing is broadcast.
func (r *Room) Dispatch(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.apply(a); err != nil {
		return err
	}
	r.log.Debug("action accepted", zap.String("action", actionName(a)))
	r.broadcastLocked()
	return nil
}

func (r *Room) apply(a Action) error {
	// Normalize: outside of add_player the token must already belong to
	// a connected player.
	if add, ok := a.(AddPlayer); ok {
		return r.addPlayer(add)
	}

	token := actionToken(a)
	if token == "" {
		return game.ErrInvalidArgument("action token missing")
	}
	actor := r.connected[token]
	if actor == nil {
		return game.ErrNotFound("no connected player for this token")
	}

	switch act := a.(type) {
	case ExitRoom:
		return r.removePlayer(actor, actor.ID)
	case RemovePlayer:
		return r.removePlayer(actor, act.PlayerID)
	case ChangeHost:
		return r.changeHost(actor, act.NewHostID)
	case StartGame:
		if actor.Token != r.hostToken {
			return game.ErrRuleViolation("only the host can start the game")
		}
		return r.game.Start()
	case PreGame:
		return r.game.ApplyPreGame(actor.ID, actor.Token == r.hostToken, act.Act)
	case InGame:
		return r.game.ApplyInGame(actor.ID, act.Act)
	default:
		return game.ErrInvalidArgument("unknown action")
	}
}

func (r *Room) addPlayer(act AddPlayer) error {
	if act.Token == "" {
		return game.ErrInvalidArgument("action token missing")
	}

	// Reconnect path: a token that already resolves to a game player
	// rejoins regardless of game state. The frozen hand stays intact.
	if p := r.game.PlayerByToken(act.Token); p != nil {
		r.connected[act.Token] = p
		if r.hostToken == "" {
			r.hostToken = act.Token
		}
		r.log.Info("player reconnected", zap.String("player_id", p.ID))
		return nil
	}

	if r.game.State() != game.StateNotStarted {
		return game.ErrRuleViolation("game already started; only previous players may rejoin")
	}
	if act.Name == "" {
		return game.ErrInvalidArgument("player name cannot be empty")
	}

	id := uuid.NewString()
	if err := r.game.AddPlayer(id, act.Name, act.Token); err != nil {
		return err
	}
	p := r.game.Player(id)
	r.connected[act.Token] = p
	if r.hostToken == "" {
		r.hostToken = act.Token
	}
	r.log.Info("player joined",
		zap.String("player_id", id),
		zap.String("player_name", act.Name))
	return nil
}

func (r *Room) removePlayer(actor *game.Player, playerID string) error {
	if actor.ID != playerID && actor.Token != r.hostToken {
		return game.ErrRuleViolation("only the host or the player themselves can remove a player")
	}

	var target *game.Player
	for _, p := range r.connected {
		if p.ID == playerID {
			target = p
			break
		}
	}
	if target == nil {
		return game.ErrNotFound("player %s is not connected to this room", playerID)
	}

	delete(r.connected, target.Token)
	if r.game.State() == game.StateNotStarted {
		if err := r.game.RemovePlayer(target.ID); err != nil {
			return err
		}
	}

	// Host reassignment: any remaining connection will do.
	if target.Token == r.hostToken {
		r.hostToken = ""
		for token := range r.connected {
			r.hostToken = token
			break
		}
	}
	r.log.Info("player removed", zap.String("player_id", playerID))
	return nil
}

func (r *Room) changeHost(actor *game.Player, newHostID string) error {
	if actor.Token != r.hostToken {
		return game.ErrRuleViolation("only the current host can change the host")
	}
	if newHostID == actor.ID {
		return game.ErrRuleViolation("cannot change host to the same player")
	}
	for token, p := range r.connected {
		if p.ID == newHostID {
			r.hostToken = token
			return nil
		}
	}
	return game.ErrNotFound("new host must be a connected player")
}

// Snapshot renders the room for the holder of viewerToken.
func (r *Room) Snapshot(viewerToken string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(viewerToken)
}

func (r *Room) snapshotLocked(viewerToken string) Snapshot {
	connected := make([]string, 0, len(r.connected))
	for _, p := range r.connected {
		connected = append(connected, p.ID)
	}
	sort.Strings(connected)

	hostID := ""
	if host := r.connected[r.hostToken]; host != nil {
		hostID = host.ID
	}
	receiverID := ""
	if viewer := r.connected[viewerToken]; viewer != nil {
		receiverID = viewer.ID
	}

	return Snapshot{
		RoomID:           r.id,
		GameType:         r.gameType,
		HostID:           hostID,
		ReceiverID:       receiverID,
		ConnectedPlayers: connected,
		Game:             r.game.Snapshot(receiverID),
	}
}

// broadcastLocked renders a per-recipient snapshot and hands it to each
// subscriber's queue. A consumer that cannot keep up loses this update;
// its next delivered snapshot supersedes anything it missed.
func (r *Room) broadcastLocked() {
	for sub := range r.subs {
		snap := r.snapshotLocked(sub.token)
		select {
		case sub.Ch <- snap:
		default:
			r.log.Warn("subscriber queue full, dropping snapshot",
				zap.String("receiver_id", snap.ReceiverID))
		}
	}
}

func actionToken(a Action) string {
	switch act := a.(type) {
	case AddPlayer:
		return act.Token
	case ExitRoom:
		return act.Token
	case RemovePlayer:
		return act.Token
	case ChangeHost:
		return act.Token
	case StartGame:
		return act.Token
	case PreGame:
		return act.Token
	case InGame:
		return act.Token
	default:
		return ""
	}
}
