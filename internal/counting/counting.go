// Package counting implements the Hi-Lo card count and count-based bet sizing.
package counting

import (
	"math"

	"github.com/lox/blackjack-advisor/internal/deck"
)

const (
	// DeckSize is the number of cards per deck used to estimate decks
	// remaining. The advisor has always used 54 rather than 52; existing
	// true counts depend on it.
	DeckSize = 54

	// DefaultDecks is the shoe size of a fresh session.
	DefaultDecks = 8
)

// Op selects whether Update adds or removes a card from the count.
type Op int

const (
	OpAdd Op = iota
	OpRemove
)

// State is the counting state of the current shoe.
type State struct {
	RunningCount int `json:"runningCount"`
	CardsDealt   int `json:"cardsDealt"`
	InitialDecks int `json:"initialDecks"`
	TotalCards   int `json:"totalCards"`
}

// NewState returns an empty count for a shoe of the given number of decks.
// Non-positive values fall back to DefaultDecks.
func NewState(decks int) State {
	if decks <= 0 {
		decks = DefaultDecks
	}
	return State{
		InitialDecks: decks,
		TotalCards:   decks * DeckSize,
	}
}

// CountValue returns the Hi-Lo tag of a rank: +1 for 2-6, 0 for 7-9 and -1 for
// tens and Aces. Unknown ranks count 0.
func CountValue(r deck.Rank) int {
	switch {
	case r >= deck.Two && r <= deck.Six:
		return 1
	case r >= deck.Seven && r <= deck.Nine:
		return 0
	case r >= deck.Ten && r <= deck.Ace:
		return -1
	default:
		return 0
	}
}

// Update applies a dealt card (OpAdd) or takes one back (OpRemove).
func (s *State) Update(r deck.Rank, op Op) {
	switch op {
	case OpAdd:
		s.Add(r)
	case OpRemove:
		s.Remove(r)
	}
}

// Add counts a dealt card.
func (s *State) Add(r deck.Rank) {
	s.RunningCount += CountValue(r)
	s.CardsDealt++
}

// Remove takes a card back out of the count. With no cards dealt it does
// nothing, so CardsDealt never goes negative.
func (s *State) Remove(r deck.Rank) {
	if s.CardsDealt <= 0 {
		return
	}
	s.RunningCount -= CountValue(r)
	s.CardsDealt--
}

// Reset clears the running count and dealt cards, keeping the shoe size.
func (s *State) Reset() {
	s.RunningCount = 0
	s.CardsDealt = 0
}

// CardsRemaining returns the undealt cards left in the shoe. It can be
// negative if more cards were entered than the shoe holds.
func (s State) CardsRemaining() int {
	return s.TotalCards - s.CardsDealt
}

// DecksRemaining estimates the decks left in the shoe.
func (s State) DecksRemaining() float64 {
	return float64(s.CardsRemaining()) / DeckSize
}

// TrueCount returns the running count per remaining deck rounded to one
// decimal place. It is 0 once the shoe is exhausted.
func (s State) TrueCount() float64 {
	decks := s.DecksRemaining()
	if decks <= 0 {
		return 0
	}
	return RoundTenth(float64(s.RunningCount) / decks)
}

// RoundTenth rounds to one decimal place with ties going towards positive
// infinity (1.25 -> 1.3, -1.25 -> -1.2). Zero results are normalised so that
// -0 never appears.
func RoundTenth(x float64) float64 {
	r := math.Floor(x*10+0.5) / 10
	if r == 0 {
		return 0
	}
	return r
}
