package game

import "encoding/json"

// InGameAction is the closed set of moves a turn holder can make.
type InGameAction interface{ isInGameAction() }

// AskCard names a specific card held (possibly) by a named opponent.
type AskCard struct {
	AskedPlayerID string `json:"asked_player_id"`
	Card          Card   `json:"card"`
}

// ClaimSet declares that the actor's team holds all six cards of a set.
type ClaimSet struct {
	SetNumber int `json:"set_number"`
}

// PassTurn hands the turn to a teammate.
type PassTurn struct {
	TeammateID string `json:"teammate_id"`
}

func (AskCard) isInGameAction()  {}
func (ClaimSet) isInGameAction() {}
func (PassTurn) isInGameAction() {}

// PreGameAction is the closed set of lobby-phase actions.
type PreGameAction interface{ isPreGameAction() }

// ChangeTeam moves a player to the given team before the game starts.
type ChangeTeam struct {
	PlayerID string `json:"player_id"`
	NewTeam  int    `json:"new_team"`
}

func (ChangeTeam) isPreGameAction() {}

type actionEnvelope struct {
	Type string `json:"type"`
}

// DecodeInGameAction parses the tagged in_game_action payload.
func DecodeInGameAction(data []byte) (InGameAction, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrInvalidArgument("malformed in-game action: %v", err)
	}
	switch env.Type {
	case "ask_card":
		var a AskCard
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, ErrInvalidArgument("malformed ask_card action: %v", err)
		}
		if a.AskedPlayerID == "" || a.Card == "" {
			return nil, ErrInvalidArgument("ask_card requires asked_player_id and card")
		}
		return a, nil
	case "claim_set":
		var a ClaimSet
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, ErrInvalidArgument("malformed claim_set action: %v", err)
		}
		if a.SetNumber == 0 {
			return nil, ErrInvalidArgument("claim_set requires set_number")
		}
		return a, nil
	case "pass_turn":
		var a PassTurn
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, ErrInvalidArgument("malformed pass_turn action: %v", err)
		}
		if a.TeammateID == "" {
			return nil, ErrInvalidArgument("pass_turn requires teammate_id")
		}
		return a, nil
	default:
		return nil, ErrInvalidArgument("unknown in-game action type %q", env.Type)
	}
}

// DecodePreGameAction parses the tagged pre_game_action payload.
func DecodePreGameAction(data []byte) (PreGameAction, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrInvalidArgument("malformed pre-game action: %v", err)
	}
	switch env.Type {
	case "change_team":
		var a ChangeTeam
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, ErrInvalidArgument("malformed change_team action: %v", err)
		}
		if a.PlayerID == "" {
			return nil, ErrInvalidArgument("change_team requires player_id")
		}
		return a, nil
	default:
		return nil, ErrInvalidArgument("unknown pre-game action type %q", env.Type)
	}
}
