package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSingleHand(t *testing.T) {
	tests := []struct {
		name     string
		player   string
		doubled  bool
		outcome  Outcome
		profit   float64
		wins     int
		losses   int
		pushes   int
		bankroll float64
	}{
		{name: "blackjack pays 3:2", player: "A K", outcome: OutcomeWin, profit: 15, wins: 1, bankroll: 1015},
		{name: "plain win", player: "10 9", outcome: OutcomeWin, profit: 10, wins: 1, bankroll: 1010},
		{name: "doubled win", player: "6 5", doubled: true, outcome: OutcomeWin, profit: 20, wins: 1, bankroll: 1020},
		{name: "three card 21 is not blackjack", player: "7 7 7", outcome: OutcomeWin, profit: 10, wins: 1, bankroll: 1010},
		{name: "loss", player: "10 6", outcome: OutcomeLoss, profit: -10, losses: 1, bankroll: 990},
		{name: "doubled loss", player: "6 5", doubled: true, outcome: OutcomeLoss, profit: -20, losses: 1, bankroll: 980},
		{name: "push", player: "10 7", outcome: OutcomePush, pushes: 1, bankroll: 1000},
		{name: "surrender", player: "10 6", outcome: OutcomeSurrender, profit: -5, losses: 1, bankroll: 995},
		{name: "doubled surrender still loses half", player: "6 5", doubled: true, outcome: OutcomeSurrender, profit: -5, losses: 1, bankroll: 995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{Bet: 10})
			deal(t, s, DealerTarget, "9")
			deal(t, s, PlayerTarget, tt.player)
			if tt.doubled {
				require.True(t, s.Double())
			}
			dealt := s.Counting.CardsDealt

			require.True(t, s.Record(tt.outcome, s.EffectiveBet()))
			assert.Equal(t, 1, s.Stats.GamesPlayed)
			assert.Equal(t, tt.wins, s.Stats.Wins)
			assert.Equal(t, tt.losses, s.Stats.Losses)
			assert.Equal(t, tt.pushes, s.Stats.Pushes)
			assert.InDelta(t, tt.profit, s.Stats.TotalProfit, 1e-9)
			assert.InDelta(t, tt.bankroll, s.Bankroll, 1e-9)

			// The table clears but the shoe keeps its count.
			assert.Empty(t, s.Player)
			assert.Empty(t, s.Dealer)
			assert.False(t, s.Doubled)
			assert.Equal(t, dealt, s.Counting.CardsDealt)
		})
	}
}

func TestRecordIgnoredWhileSplit(t *testing.T) {
	s := New(Options{})
	deal(t, s, PlayerTarget, "8 8")
	require.True(t, s.Split())

	for _, o := range []Outcome{OutcomeWin, OutcomeLoss, OutcomePush, OutcomeSurrender} {
		assert.False(t, s.Record(o, 10), o.String())
	}
	assert.Zero(t, s.Stats.GamesPlayed)
	assert.Equal(t, 1000.0, s.Bankroll)
	assert.True(t, s.IsSplit())
}

func TestBankrollNeverNegative(t *testing.T) {
	s := New(Options{Bankroll: 15})
	deal(t, s, PlayerTarget, "6 5")
	require.True(t, s.Double())
	s.RecordLoss(10)

	assert.Equal(t, 0.0, s.Bankroll)
	assert.Equal(t, -20.0, s.Stats.TotalProfit)
}

func TestSplitRoundCountsOneGame(t *testing.T) {
	s := New(Options{Bet: 10})
	deal(t, s, DealerTarget, "6")
	deal(t, s, PlayerTarget, "8 8")
	require.True(t, s.Split())
	deal(t, s, PlayerTarget, "3 10")

	require.True(t, s.RecordSplitResult(0, OutcomeWin, 10))
	assert.Zero(t, s.Stats.GamesPlayed)
	assert.Equal(t, Win, s.Splits[0].Result)

	// Recording a settled hand again changes nothing.
	assert.False(t, s.RecordSplitResult(0, OutcomeWin, 10))
	assert.Equal(t, 1, s.Stats.Wins)
	assert.Equal(t, 1010.0, s.Bankroll)

	require.True(t, s.RecordSplitResult(1, OutcomeLoss, 10))
	assert.Equal(t, 1, s.Stats.GamesPlayed)
	assert.Equal(t, 1, s.Stats.Wins)
	assert.Equal(t, 1, s.Stats.Losses)
	assert.Equal(t, 0.0, s.Stats.TotalProfit)
	assert.Equal(t, 1000.0, s.Bankroll)
	assert.False(t, s.IsSplit())
	assert.Empty(t, s.Dealer)
}

func TestSplitResultMultipliers(t *testing.T) {
	s := New(Options{})
	deal(t, s, PlayerTarget, "5 5")
	require.True(t, s.Split())
	deal(t, s, PlayerTarget, "6 2")
	require.True(t, s.DoubleSplit(0))

	require.True(t, s.RecordSplitResult(1, OutcomeSurrender, 10))
	assert.Equal(t, Loss, s.Splits[1].Result)
	assert.Equal(t, -5.0, s.Stats.TotalProfit)
	assert.False(t, s.DoubleSplit(1), "settled hands cannot double")

	require.True(t, s.RecordSplitResult(0, OutcomeWin, 10))
	assert.Equal(t, 15.0, s.Stats.TotalProfit)
	assert.Equal(t, 1, s.Stats.GamesPlayed)
	assert.Equal(t, 1, s.Stats.Wins)
	assert.Equal(t, 1, s.Stats.Losses)
}

func TestDoubledSplitSurrender(t *testing.T) {
	s := New(Options{})
	deal(t, s, PlayerTarget, "5 5")
	require.True(t, s.Split())
	deal(t, s, PlayerTarget, "6 2")
	require.True(t, s.DoubleSplit(0))

	require.True(t, s.RecordSplitResult(0, OutcomeSurrender, 10))
	assert.Equal(t, -10.0, s.Stats.TotalProfit)
}

func TestRecordSplitResultOutOfRange(t *testing.T) {
	s := New(Options{})
	assert.False(t, s.RecordSplitResult(0, OutcomeWin, 10))

	deal(t, s, PlayerTarget, "9 9")
	require.True(t, s.Split())
	assert.False(t, s.RecordSplitResult(2, OutcomeWin, 10))
	assert.False(t, s.RecordSplitResult(-1, OutcomeWin, 10))
	assert.Zero(t, s.Stats.Wins)
}

func TestParseOutcome(t *testing.T) {
	for in, want := range map[string]Outcome{
		"win": OutcomeWin, "w": OutcomeWin,
		"loss": OutcomeLoss, "lose": OutcomeLoss,
		"push": OutcomePush,
		"surrender": OutcomeSurrender, "s": OutcomeSurrender,
	} {
		got, err := ParseOutcome(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutcome("draw")
	assert.Error(t, err)
}
