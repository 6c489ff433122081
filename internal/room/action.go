package room

import (
	"encoding/json"

	"literature/internal/game"
)

// Action is the closed set of operations a room can dispatch. Every
// variant carries the connection token it was submitted with; the
// transport layer stamps it, never the client.
type Action interface{ isAction() }

// AddPlayer registers a connection in the room, joining the game in the
// lobby phase or reconnecting a known token mid-game. Synthesized by
// the session consumer on connect, never parsed from the wire.
type AddPlayer struct {
	Token string
	Name  string
}

// ExitRoom drops the acting player, synthesized on disconnect.
type ExitRoom struct {
	Token string
}

// RemovePlayer drops the named player; legal for the player themselves
// or the host.
type RemovePlayer struct {
	Token    string
	PlayerID string
}

// ChangeHost transfers host authority to another connected player.
type ChangeHost struct {
	Token     string
	NewHostID string
}

// StartGame starts the game; host only.
type StartGame struct {
	Token string
}

// PreGame wraps a lobby-phase game action.
type PreGame struct {
	Token string
	Act   game.PreGameAction
}

// InGame wraps a turn-holder game action.
type InGame struct {
	Token string
	Act   game.InGameAction
}

func (AddPlayer) isAction()    {}
func (ExitRoom) isAction()     {}
func (RemovePlayer) isAction() {}
func (ChangeHost) isAction()   {}
func (StartGame) isAction()    {}
func (PreGame) isAction()      {}
func (InGame) isAction()       {}

type actionEnvelope struct {
	Type      string          `json:"type"`
	PlayerID  string          `json:"player_id"`
	NewHostID string          `json:"new_host_id"`
	PreGame   json.RawMessage `json:"pre_game_action"`
	InGame    json.RawMessage `json:"in_game_action"`
}

// ParseAction decodes a client message into an action, stamping the
// connection's token over anything the client may have supplied.
func ParseAction(data []byte, token string) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, game.ErrInvalidArgument("malformed action: %v", err)
	}
	switch env.Type {
	case "exit_room":
		return ExitRoom{Token: token}, nil
	case "remove_player":
		if env.PlayerID == "" {
			return nil, game.ErrInvalidArgument("remove_player requires player_id")
		}
		return RemovePlayer{Token: token, PlayerID: env.PlayerID}, nil
	case "change_host":
		if env.NewHostID == "" {
			return nil, game.ErrInvalidArgument("change_host requires new_host_id")
		}
		return ChangeHost{Token: token, NewHostID: env.NewHostID}, nil
	case "start_game":
		return StartGame{Token: token}, nil
	case "pre_game_action":
		if len(env.PreGame) == 0 {
			return nil, game.ErrInvalidArgument("pre_game_action payload missing")
		}
		act, err := game.DecodePreGameAction(env.PreGame)
		if err != nil {
			return nil, err
		}
		return PreGame{Token: token, Act: act}, nil
	case "in_game_action":
		if len(env.InGame) == 0 {
			return nil, game.ErrInvalidArgument("in_game_action payload missing")
		}
		act, err := game.DecodeInGameAction(env.InGame)
		if err != nil {
			return nil, err
		}
		return InGame{Token: token, Act: act}, nil
	default:
		return nil, game.ErrInvalidArgument("unknown action type %q", env.Type)
	}
}

func actionName(a Action) string {
	switch a.(type) {
	case AddPlayer:
		return "add_player"
	case ExitRoom:
		return "exit_room"
	case RemovePlayer:
		return "remove_player"
	case ChangeHost:
		return "change_host"
	case StartGame:
		return "start_game"
	case PreGame:
		return "pre_game_action"
	case InGame:
		return "in_game_action"
	default:
		return "unknown"
	}
}
