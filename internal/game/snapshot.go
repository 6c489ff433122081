package game

import "strconv"

// GameState is the wire representation of a game, rendered for one
// viewer. Only the viewer's own hand is populated, and only while the
// game is in progress.
type GameState struct {
	GameID          string         `json:"gameId"`
	Players         []PlayerState  `json:"players"`
	CurrentPlayerID *string        `json:"currentPlayerId"`
	ClaimedSets     map[string]int `json:"claimedSets"`
	Scores          map[string]int `json:"scores"`
	State           State          `json:"state"`
	WinningTeam     *int           `json:"winningTeam"`
	LastAsk         *AskRecord     `json:"lastAsk"`
}

// Snapshot renders the game for the given viewer. Repeated calls with
// no intervening mutation produce identical output.
func (g *Game) Snapshot(viewerID string) GameState {
	players := make([]PlayerState, 0, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		players = append(players, p.State(id == viewerID && g.state == StateInProgress))
	}

	claimed := make(map[string]int, len(g.claimedSets))
	for set, team := range g.claimedSets {
		claimed[strconv.Itoa(set)] = team
	}

	s := GameState{
		GameID:      g.id,
		Players:     players,
		ClaimedSets: claimed,
		Scores: map[string]int{
			"1": g.scores[1],
			"2": g.scores[2],
		},
		State:   g.state,
		LastAsk: g.LastAsk(),
	}
	if g.currentTurn != "" {
		turn := g.currentTurn
		s.CurrentPlayerID = &turn
	}
	if g.winningTeam != 0 {
		team := g.winningTeam
		s.WinningTeam = &team
	}
	return s
}
