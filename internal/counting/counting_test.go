package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-advisor/internal/deck"
)

func TestNewState(t *testing.T) {
	s := NewState(8)
	assert.Equal(t, 8, s.InitialDecks)
	assert.Equal(t, 432, s.TotalCards)

	s = NewState(0)
	assert.Equal(t, DefaultDecks, s.InitialDecks)
	assert.Equal(t, DefaultDecks*DeckSize, s.TotalCards)
}

func TestCountValue(t *testing.T) {
	for _, r := range []deck.Rank{deck.Two, deck.Three, deck.Four, deck.Five, deck.Six} {
		assert.Equal(t, 1, CountValue(r), r.String())
	}
	for _, r := range []deck.Rank{deck.Seven, deck.Eight, deck.Nine} {
		assert.Equal(t, 0, CountValue(r), r.String())
	}
	for _, r := range []deck.Rank{deck.Ten, deck.Jack, deck.Queen, deck.King, deck.Ace} {
		assert.Equal(t, -1, CountValue(r), r.String())
	}
	assert.Equal(t, 0, CountValue(deck.NoRank))
}

func TestUpdate(t *testing.T) {
	s := NewState(8)
	s.Update(deck.Five, OpAdd)
	s.Update(deck.King, OpAdd)
	s.Update(deck.Two, OpAdd)
	assert.Equal(t, 1, s.RunningCount)
	assert.Equal(t, 3, s.CardsDealt)

	s.Update(deck.Two, OpRemove)
	assert.Equal(t, 0, s.RunningCount)
	assert.Equal(t, 2, s.CardsDealt)

	t.Run("unknown rank still counts as dealt", func(t *testing.T) {
		s := NewState(8)
		s.Add(deck.NoRank)
		assert.Equal(t, 0, s.RunningCount)
		assert.Equal(t, 1, s.CardsDealt)
	})

	t.Run("remove from empty shoe is a no-op", func(t *testing.T) {
		s := NewState(8)
		s.Remove(deck.Five)
		assert.Equal(t, 0, s.RunningCount)
		assert.Equal(t, 0, s.CardsDealt)
	})
}

func TestRemoveAddRoundTrip(t *testing.T) {
	for _, r := range deck.Ranks {
		for _, start := range []State{
			{RunningCount: 3, CardsDealt: 1, InitialDecks: 8, TotalCards: 432},
			{RunningCount: -7, CardsDealt: 200, InitialDecks: 8, TotalCards: 432},
			{RunningCount: 0, CardsDealt: 432, InitialDecks: 8, TotalCards: 432},
		} {
			s := start
			s.Remove(r)
			s.Add(r)
			assert.Equal(t, start, s, "rank %s", r)
		}
	}
}

func TestTrueCount(t *testing.T) {
	tests := []struct {
		name    string
		running int
		dealt   int
		want    float64
	}{
		{"fresh shoe", 0, 0, 0},
		{"two decks in", 10, 108, 1.7},
		{"negative count", -9, 108, -1.5},
		{"negative rounding", -10, 108, -1.7},
		{"half shoe", 8, 216, 2},
		{"ties round up", 5, 432 - 4*54, 1.3},
		{"negative ties round up", -5, 432 - 4*54, -1.2},
		{"shoe exhausted", 12, 432, 0},
		{"over dealt", 12, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(8)
			s.RunningCount = tt.running
			s.CardsDealt = tt.dealt
			assert.InDelta(t, tt.want, s.TrueCount(), 1e-9)
		})
	}
}

func TestTrueCountNeverNegativeZero(t *testing.T) {
	s := NewState(8)
	s.RunningCount = -0
	s.CardsDealt = 10
	tc := s.TrueCount()
	require.Equal(t, 0.0, tc)
	assert.False(t, 1/tc < 0, "true count must not be -0")
}

func TestReset(t *testing.T) {
	s := NewState(6)
	s.Add(deck.Four)
	s.Add(deck.Four)
	s.Reset()
	assert.Equal(t, State{InitialDecks: 6, TotalCards: 6 * DeckSize}, s)
}

func TestSuggestedBet(t *testing.T) {
	tests := []struct {
		tc         float64
		multiplier int
		tier       Tier
	}{
		{-3, 1, TierNegative},
		{0, 1, TierNegative},
		{0.1, 1, TierLow},
		{1, 1, TierLow},
		{1.1, 2, TierSlightlyPositive},
		{2, 2, TierSlightlyPositive},
		{2.5, 4, TierPositive},
		{3, 4, TierPositive},
		{4, 6, TierGood},
		{5, 8, TierVeryGood},
		{5.1, 10, TierExcellent},
		{12, 10, TierExcellent},
	}

	for _, tt := range tests {
		bet := SuggestedBet(tt.tc)
		assert.Equal(t, tt.multiplier, bet.Multiplier, "tc %v", tt.tc)
		assert.Equal(t, tt.tier, bet.Tier, "tc %v", tt.tc)
		assert.Equal(t, tt.multiplier, bet.Units())
		assert.NotEmpty(t, bet.Tier.Label())
	}
}
