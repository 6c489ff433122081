package game

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// State is the lifecycle phase of a game.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateEnded      State = "ended"
)

const (
	maxPlayers   = 6
	teamSize     = 3
	cardsPerHand = 9
)

// AskRecord describes the most recent ask, kept for client replay.
type AskRecord struct {
	AskingPlayerID string `json:"askingPlayerId"`
	AskedPlayerID  string `json:"askedPlayerId"`
	Card           Card   `json:"card"`
	Success        bool   `json:"success"`
}

// Game is the rule-enforcing state machine for one Literature game.
// It is not safe for concurrent use; the owning room serializes access.
type Game struct {
	id          string
	players     map[string]*Player
	order       []string // join order, drives team parity and deal order
	currentTurn string
	claimedSets map[int]int
	scores      map[int]int
	state       State
	winningTeam int // 0 until ended, stays 0 on a tie
	lastAsk     *AskRecord
	rng         *mrand.Rand
}

// NewGame creates an empty game in NOT_STARTED with its own
// cryptographically seeded PRNG, so shuffles in different rooms are
// uncorrelated.
func NewGame(id string) *Game {
	var seed int64
	if err := binary.Read(rand.Reader, binary.LittleEndian, &seed); err != nil {
		panic("game: cannot seed PRNG: " + err.Error())
	}
	return &Game{
		id:          id,
		players:     make(map[string]*Player),
		claimedSets: make(map[int]int),
		scores:      map[int]int{1: 0, 2: 0},
		state:       StateNotStarted,
		rng:         mrand.New(mrand.NewSource(seed)),
	}
}

// ID returns the game id (the room code in practice).
func (g *Game) ID() string { return g.id }

// State returns the lifecycle phase.
func (g *Game) State() State { return g.state }

// Player returns a player by id, or nil.
func (g *Game) Player(id string) *Player { return g.players[id] }

// PlayerByToken returns the player bound to a connection token, or nil.
func (g *Game) PlayerByToken(token string) *Player {
	for _, p := range g.players {
		if p.Token == token {
			return p
		}
	}
	return nil
}

// Players returns all players in join order.
func (g *Game) Players() []*Player {
	out := make([]*Player, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.players[id])
	}
	return out
}

// CurrentPlayerID returns the id of the turn holder ("" before start).
func (g *Game) CurrentPlayerID() string { return g.currentTurn }

// WinningTeam returns 1 or 2 after the game ends, 0 otherwise (tie included).
func (g *Game) WinningTeam() int { return g.winningTeam }

// Scores returns a copy of the team scores.
func (g *Game) Scores() map[int]int {
	return map[int]int{1: g.scores[1], 2: g.scores[2]}
}

// ClaimedSets returns a copy of the set-to-team claim record.
func (g *Game) ClaimedSets() map[int]int {
	out := make(map[int]int, len(g.claimedSets))
	for set, team := range g.claimedSets {
		out[set] = team
	}
	return out
}

// LastAsk returns a copy of the most recent ask record, or nil.
func (g *Game) LastAsk() *AskRecord {
	if g.lastAsk == nil {
		return nil
	}
	rec := *g.lastAsk
	return &rec
}

// AddPlayer registers a player before the game starts. Teams are
// assigned by join parity so six joins produce the 3/3 split.
func (g *Game) AddPlayer(id, name, token string) error {
	if g.state != StateNotStarted {
		return ErrIllegalState("cannot join a game that has already started")
	}
	if len(g.players) >= maxPlayers {
		return ErrRuleViolation("game already has %d players", maxPlayers)
	}
	if _, ok := g.players[id]; ok {
		return ErrRuleViolation("player %s is already in the game", id)
	}
	p := NewPlayer(id, name, token)
	if len(g.order)%2 == 0 {
		p.Team = 1
	} else {
		p.Team = 2
	}
	g.players[id] = p
	g.order = append(g.order, id)
	return nil
}

// RemovePlayer drops a player from the roster before the game starts.
// Unknown ids are a no-op.
func (g *Game) RemovePlayer(id string) error {
	if g.state != StateNotStarted {
		return ErrIllegalState("cannot remove a player after the game has started")
	}
	if _, ok := g.players[id]; !ok {
		return nil
	}
	delete(g.players, id)
	for i, pid := range g.order {
		if pid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if g.currentTurn == id {
		g.currentTurn = ""
	}
	return nil
}

// Start deals the shuffled deck and picks a starting player at random.
func (g *Game) Start() error {
	if g.state != StateNotStarted {
		return ErrIllegalState("game has already started")
	}
	if len(g.players) != maxPlayers {
		return ErrPreconditionFailed("exactly %d players required, have %d", maxPlayers, len(g.players))
	}
	counts := map[int]int{}
	for _, p := range g.players {
		counts[p.Team]++
	}
	if counts[1] != teamSize || counts[2] != teamSize {
		return ErrPreconditionFailed("each team needs exactly %d players (team 1: %d, team 2: %d)",
			teamSize, counts[1], counts[2])
	}

	deck := AllCards()
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	for i, id := range g.order {
		p := g.players[id]
		p.hand = make(map[Card]struct{}, cardsPerHand)
		for _, c := range deck[i*cardsPerHand : (i+1)*cardsPerHand] {
			p.hand[c] = struct{}{}
		}
	}

	g.currentTurn = g.order[g.rng.Intn(len(g.order))]
	g.state = StateInProgress
	return nil
}

// AskForCard resolves the central Literature move. A found card moves to
// the asker who keeps the turn; a miss passes the turn to the askee.
// Any precondition violation leaves the game untouched.
func (g *Game) AskForCard(askingID, askedID string, card Card) error {
	asking := g.players[askingID]
	asked := g.players[askedID]
	if asking == nil {
		return ErrNotFound("unknown player %s", askingID)
	}
	if asked == nil {
		return ErrNotFound("unknown player %s", askedID)
	}
	if !IsCard(card) {
		return ErrInvalidArgument("unknown card %q", string(card))
	}
	if asking.HasCard(card) {
		return ErrRuleViolation("you already hold %s", card)
	}
	set := int(card[2] - '0')
	if team, claimed := g.claimedSets[set]; claimed {
		return ErrRuleViolation("set %d has already been claimed by team %d", set, team)
	}
	if !sameSetHoldings(asking.hand, set) {
		return ErrRuleViolation("you must hold a card from the same set to ask for %s", card)
	}
	if asking.Team == asked.Team {
		return ErrRuleViolation("cannot ask a teammate for cards")
	}
	if asked.HandSize() == 0 {
		return ErrRuleViolation("%s has no cards left", asked.Name)
	}

	success := asked.HasCard(card)
	if success {
		asked.RemoveCard(card)
		asking.AddCard(card)
		// Turn stays with the asker.
	} else {
		g.currentTurn = askedID
	}
	g.lastAsk = &AskRecord{
		AskingPlayerID: askingID,
		AskedPlayerID:  askedID,
		Card:           card,
		Success:        success,
	}
	return nil
}

// ClaimSet resolves a declaration that the declarant's team holds every
// card of the set. The set's cards leave play whichever way it resolves;
// a wrong claim scores for the opponents.
func (g *Game) ClaimSet(setNumber int, declaringID string) error {
	if setNumber < 1 || setNumber > NumSets {
		return ErrInvalidArgument("set number must be between 1 and %d, got %d", NumSets, setNumber)
	}
	if team, claimed := g.claimedSets[setNumber]; claimed {
		return ErrRuleViolation("set %d has already been claimed by team %d", setNumber, team)
	}
	declaring := g.players[declaringID]
	if declaring == nil {
		return ErrNotFound("unknown player %s", declaringID)
	}

	needed, _ := CardsInSet(setNumber)
	complete := true
	for _, c := range needed {
		held := false
		for _, p := range g.players {
			if p.Team == declaring.Team && p.HasCard(c) {
				held = true
				break
			}
		}
		if !held {
			complete = false
			break
		}
	}

	for _, p := range g.players {
		for _, c := range needed {
			p.RemoveCard(c)
		}
	}

	winner := declaring.Team
	if !complete {
		winner = 3 - declaring.Team
	}
	g.claimedSets[setNumber] = winner
	g.scores[winner]++

	if len(g.claimedSets) == NumSets {
		g.end()
	}
	return nil
}

// PassTurn hands the turn to a teammate; legal only for an empty-handed
// turn holder.
func (g *Game) PassTurn(passerID, teammateID string) error {
	passer := g.players[passerID]
	teammate := g.players[teammateID]
	if passer == nil {
		return ErrNotFound("unknown player %s", passerID)
	}
	if teammate == nil {
		return ErrNotFound("unknown player %s", teammateID)
	}
	if passerID == teammateID {
		return ErrRuleViolation("cannot pass the turn to yourself")
	}
	if passer.Team != teammate.Team {
		return ErrRuleViolation("can only pass the turn to a teammate")
	}
	if passer.HandSize() > 0 {
		return ErrRuleViolation("cannot pass the turn while holding cards")
	}
	g.currentTurn = teammateID
	return nil
}

// ApplyPreGame dispatches a lobby-phase action. Only the player
// themselves or the host may change a player's team.
func (g *Game) ApplyPreGame(actorID string, actorIsHost bool, act PreGameAction) error {
	if g.state != StateNotStarted {
		return ErrIllegalState("pre-game actions are only valid before the game starts")
	}
	switch a := act.(type) {
	case ChangeTeam:
		if a.PlayerID != actorID && !actorIsHost {
			return ErrRuleViolation("only the host or the player themselves can change teams")
		}
		if a.NewTeam != 1 && a.NewTeam != 2 {
			return ErrInvalidArgument("team must be 1 or 2, got %d", a.NewTeam)
		}
		p := g.players[a.PlayerID]
		if p == nil {
			return ErrNotFound("unknown player %s", a.PlayerID)
		}
		p.Team = a.NewTeam
		return nil
	default:
		return ErrInvalidArgument("unknown pre-game action")
	}
}

// ApplyInGame dispatches an in-game action for the turn holder.
func (g *Game) ApplyInGame(actorID string, act InGameAction) error {
	if g.state != StateInProgress {
		return ErrIllegalState("game is not in progress")
	}
	if actorID != g.currentTurn {
		return ErrRuleViolation("it is not your turn")
	}
	switch a := act.(type) {
	case AskCard:
		return g.AskForCard(actorID, a.AskedPlayerID, a.Card)
	case ClaimSet:
		return g.ClaimSet(a.SetNumber, actorID)
	case PassTurn:
		return g.PassTurn(actorID, a.TeammateID)
	default:
		return ErrInvalidArgument("unknown in-game action")
	}
}

func (g *Game) end() {
	g.state = StateEnded
	switch {
	case g.scores[1] > g.scores[2]:
		g.winningTeam = 1
	case g.scores[2] > g.scores[1]:
		g.winningTeam = 2
	default:
		g.winningTeam = 0 // tie
	}
	g.currentTurn = ""
}
