package display

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/statistics"
	"github.com/lox/blackjack-advisor/internal/strategy"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in     float64
		plain  string
		signed string
	}{
		{15, "$15.00", "+$15.00"},
		{1015, "$1015.00", "+$1015.00"},
		{-5, "-$5.00", "-$5.00"},
		{0.125, "$0.12", "+$0.12"},
		{0, "$0.00", "+$0.00"},
		{-0.001, "$0.00", "+$0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.plain, Money(tt.in), "Money(%v)", tt.in)
		assert.Equal(t, tt.signed, SignedMoney(tt.in), "SignedMoney(%v)", tt.in)
	}
}

func TestCounts(t *testing.T) {
	assert.Equal(t, "1.7", TrueCount(1.6667))
	assert.Equal(t, "0.0", TrueCount(-0.01))
	assert.Equal(t, "-2.5", TrueCount(-2.5))
	assert.Equal(t, "+4", RunningCount(4))
	assert.Equal(t, "0", RunningCount(0))
	assert.Equal(t, "-3", RunningCount(-3))
}

func TestWinRates(t *testing.T) {
	assert.Equal(t, "66.7%", StatsWinRate(statistics.Stats{GamesPlayed: 3, Wins: 2}))
	assert.Equal(t, "0.0%", StatsWinRate(statistics.Stats{}))
	assert.Equal(t, "54.5%", WinRate("54.5"))
}

func TestHand(t *testing.T) {
	assert.Equal(t, "-", Hand(nil))
	assert.Equal(t, "A K (blackjack 21)", Hand(deck.MustParseCards("A K")))
	assert.Equal(t, "A 6 (soft 17)", Hand(deck.MustParseCards("A 6")))
	assert.Equal(t, "10 6 (hard 16)", Hand(deck.MustParseCards("10 6")))
	assert.Equal(t, "10 6 K (bust 26)", Hand(deck.MustParseCards("10 6 K")))
}

func TestBet(t *testing.T) {
	assert.Equal(t, "1 unit (Negative count - bet minimum)", Bet(counting.SuggestedBet(-1)))
	assert.Equal(t, "4 units (Positive count - bet 4x)", Bet(counting.SuggestedBet(3)))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "BLACKJACK! 🎉", ActionLabel(strategy.Blackjack))
	assert.Equal(t, "HIT", ActionLabel(strategy.Hit))
	assert.Equal(t, "BUY INSURANCE 🛡️", InsuranceLabel(strategy.TakeInsurance))
	assert.Empty(t, InsuranceLabel(strategy.NoInsuranceOffer))
}

func TestRecommendation(t *testing.T) {
	shoe := counting.NewState(8)
	shoe.RunningCount = 9 // TC 1.1

	rec := strategy.Recommend(deck.MustParseCards("10 6"), deck.Ten, shoe)
	assert.Equal(t, "STAND\nHard 16 vs 10: stand (TC 1.1 >= 1)", Recommendation(rec))

	rec = strategy.Recommend(deck.MustParseCards("A K"), deck.Ace, shoe)
	assert.Equal(t, "BLACKJACK! 🎉\nNO INSURANCE ❌\nTrue Count 1.1 < 3: insurance is not profitable", Recommendation(rec))

	assert.Equal(t, "Bankroll: $10.00", Field("Bankroll", Money(10)))
}
