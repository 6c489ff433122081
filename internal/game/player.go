package game

import "sort"

// Player is a member of a room and, once a game is running, of one of
// the two teams. The token is the connection secret and is never
// serialized.
type Player struct {
	ID    string
	Name  string
	Token string
	Team  int

	hand map[Card]struct{}
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(id, name, token string) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Token: token,
		hand:  make(map[Card]struct{}),
	}
}

// AddCard puts a card into the player's hand.
func (p *Player) AddCard(c Card) {
	p.hand[c] = struct{}{}
}

// RemoveCard takes a card out of the hand; reports whether it was held.
func (p *Player) RemoveCard(c Card) bool {
	if _, ok := p.hand[c]; !ok {
		return false
	}
	delete(p.hand, c)
	return true
}

// HasCard reports whether the player holds the card.
func (p *Player) HasCard(c Card) bool {
	_, ok := p.hand[c]
	return ok
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// Hand returns the held cards in a stable order.
func (p *Player) Hand() []Card {
	cards := make([]Card, 0, len(p.hand))
	for c := range p.hand {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i] < cards[j] })
	return cards
}

// PlayerState is the wire representation of a player. Hand is populated
// only in the owner's view; CardCount always carries the size.
type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      int    `json:"team"`
	Hand      []Card `json:"hand"`
	CardCount int    `json:"card_count"`
}

// State serializes the player, including the literal card list only
// when includeHand is set.
func (p *Player) State(includeHand bool) PlayerState {
	s := PlayerState{
		ID:        p.ID,
		Name:      p.Name,
		Team:      p.Team,
		Hand:      []Card{},
		CardCount: len(p.hand),
	}
	if includeHand {
		s.Hand = p.Hand()
	}
	return s
}
