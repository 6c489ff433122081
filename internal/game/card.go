package game

// Card is a compact 3-character identifier: rank, suit, set index.
// Rank is A, 2-9, 1 (for ten), J, Q or K. Suit is C, D, H or S, or R/B
// for the red and black jokers. The set index (1-9) is baked into the
// id so the set lookup is a single byte read.
type Card string

// The 54-card deck partitions into 9 sets of 6: the low half (A-6) and
// high half (8-K) of each suit, plus the four sevens and both jokers.
const (
	setLowerClubs      = 1
	setHigherClubs     = 2
	setLowerDiamonds   = 3
	setHigherDiamonds  = 4
	setLowerHearts     = 5
	setHigherHearts    = 6
	setLowerSpades     = 7
	setHigherSpades    = 8
	setSevensAndJokers = 9
)

// NumSets is the number of claimable sets in a Literature deck.
const NumSets = 9

// DeckSize is the total number of cards, jokers included.
const DeckSize = 54

// RedJoker and BlackJoker round out the sevens set.
const (
	RedJoker   Card = "JR9"
	BlackJoker Card = "JB9"
)

var setNames = [NumSets + 1]string{
	"",
	"Lower Clubs",
	"Higher Clubs",
	"Lower Diamonds",
	"Higher Diamonds",
	"Lower Hearts",
	"Higher Hearts",
	"Lower Spades",
	"Higher Spades",
	"Sevens and Jokers",
}

var (
	allCards   [DeckSize]Card
	cardsBySet [NumSets + 1][]Card
	deckIndex  map[Card]struct{}
)

func init() {
	lowRanks := []byte{'A', '2', '3', '4', '5', '6'}
	highRanks := []byte{'8', '9', '1', 'J', 'Q', 'K'} // '1' stands for ten
	suits := []byte{'C', 'D', 'H', 'S'}

	add := func(rank, suit byte, set int) {
		c := Card([]byte{rank, suit, '0' + byte(set)})
		cardsBySet[set] = append(cardsBySet[set], c)
	}

	for i, suit := range suits {
		lowSet := 2*i + 1
		for _, r := range lowRanks {
			add(r, suit, lowSet)
		}
		for _, r := range highRanks {
			add(r, suit, lowSet+1)
		}
		add('7', suit, setSevensAndJokers)
	}
	cardsBySet[setSevensAndJokers] = append(cardsBySet[setSevensAndJokers], RedJoker, BlackJoker)

	deckIndex = make(map[Card]struct{}, DeckSize)
	n := 0
	for set := 1; set <= NumSets; set++ {
		for _, c := range cardsBySet[set] {
			allCards[n] = c
			n++
			deckIndex[c] = struct{}{}
		}
	}
}

// AllCards returns a fresh copy of the 54-card deck.
func AllCards() []Card {
	deck := make([]Card, DeckSize)
	copy(deck, allCards[:])
	return deck
}

// IsCard reports whether c names a card in the deck.
func IsCard(c Card) bool {
	_, ok := deckIndex[c]
	return ok
}

// CardsInSet returns the 6 cards of set n (1-9).
func CardsInSet(n int) ([]Card, error) {
	if n < 1 || n > NumSets {
		return nil, ErrInvalidArgument("set number must be between 1 and %d, got %d", NumSets, n)
	}
	cards := make([]Card, len(cardsBySet[n]))
	copy(cards, cardsBySet[n])
	return cards, nil
}

// SetOf returns the set index (1-9) the card belongs to.
func SetOf(c Card) (int, error) {
	if !IsCard(c) {
		return 0, ErrInvalidArgument("unknown card %q", string(c))
	}
	return int(c[2] - '0'), nil
}

// SetName returns a human-readable label for set n.
func SetName(n int) (string, error) {
	if n < 1 || n > NumSets {
		return "", ErrInvalidArgument("set number must be between 1 and %d, got %d", NumSets, n)
	}
	return setNames[n], nil
}

func (c Card) String() string {
	return string(c)
}

// sameSetHoldings reports whether any card of the given set appears in hand.
func sameSetHoldings(hand map[Card]struct{}, set int) bool {
	for _, c := range cardsBySet[set] {
		if _, ok := hand[c]; ok {
			return true
		}
	}
	return false
}
