package card

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	questionTime  = 180 // 普通题目限时（秒）
	challengeTime = 60  // 挑战题目限时（秒）

	// DeckSize is the number of cards in a generated deck.
	DeckSize = 20
)

// Deck 定义一副牌
type Deck []Card

// NewDeck builds the fixed card multiset and returns it shuffled with rng.
// A nil rng uses a time-seeded source.
//
// The composition has no swap card even though swap is a handled type.
func NewDeck(rng *rand.Rand) Deck {
	deck := make(Deck, 0, DeckSize)
	for i := 1; i <= 10; i++ {
		deck = append(deck, Card{
			Type:        Question,
			Value:       fmt.Sprintf("Q%d", i),
			Description: fmt.Sprintf("Answer question %d (3 minutes)", i),
			TimeLimit:   questionTime,
		})
	}
	for _, v := range []string{"Q15", "Q16"} {
		deck = append(deck, Card{
			Type:        Challenge,
			Value:       v,
			Description: "Challenge Question! (1 minute)",
			TimeLimit:   challengeTime,
		})
	}
	deck = append(deck,
		Card{Type: Points, Value: "+1", Description: "You get +1 point!"},
		Card{Type: Points, Value: "+1", Description: "You get +1 point!"},
		Card{Type: Points, Value: "-1", Description: "You lose 1 point!"},
		Card{Type: Points, Value: "-1", Description: "You lose 1 point!"},
		Card{Type: Steal, Value: "steal", Description: "Steal 1 point from another player!"},
		Card{Type: Steal, Value: "steal", Description: "Steal 1 point from another player!"},
		Card{Type: Extra, Value: "extra", Description: "Flip an extra card!"},
		Card{Type: Points, Value: "+2", Description: "You get +2 points!"},
	)

	deck.Shuffle(rng)
	return deck
}

// Shuffle permutes the deck in place.
func (d Deck) Shuffle(rng *rand.Rand) {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// count returns how many cards of type t the deck holds.
func (d Deck) count(t Type) int {
	n := 0
	for _, c := range d {
		if c.Type == t {
			n++
		}
	}
	return n
}
