package statistics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Empty(t *testing.T) {
	var stats Stats
	assert.Equal(t, 0.0, stats.WinRate())
	assert.Equal(t, 0.0, stats.ProfitPerGame())
	assert.NoError(t, stats.Validate())
}

func TestStats_WinRate(t *testing.T) {
	stats := Stats{GamesPlayed: 11, Wins: 6, Losses: 4, Pushes: 1, TotalProfit: 22}
	assert.InDelta(t, 54.545, stats.WinRate(), 0.001)
	assert.Equal(t, "54.5", FormatPercent(stats.WinRate()))
	assert.Equal(t, 2.0, stats.ProfitPerGame())
}

func TestStats_Validate(t *testing.T) {
	assert.Error(t, Stats{Losses: -1}.Validate())
}

func TestNewSnapshot(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 3, 14, 21, 5, 9, 0, loc) // 02:05 UTC next day

	snap := NewSnapshot(Stats{GamesPlayed: 3, Wins: 2, Losses: 1, TotalProfit: 15.5}, now)

	assert.Equal(t, now.UnixMilli(), snap.Timestamp)
	assert.Equal(t, "2026-03-15", snap.Date)
	assert.Equal(t, "9:05:09 PM", snap.Time)
	assert.Equal(t, "3/14/2026, 9:05:09 PM", snap.Datetime)
	assert.Equal(t, Percent("66.7"), snap.WinRate)
	assert.Equal(t, 15.5, snap.TotalProfit)
	assert.Zero(t, snap.ID)
	assert.Equal(t, Stats{GamesPlayed: 3, Wins: 2, Losses: 1, TotalProfit: 15.5}, snap.Stats())
}

func TestPercentUnmarshal(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"winRate":"12.5"}`), &snap))
	assert.Equal(t, Percent("12.5"), snap.WinRate)

	require.NoError(t, json.Unmarshal([]byte(`{"winRate":0}`), &snap))
	assert.Equal(t, Percent("0.0"), snap.WinRate)
	assert.Equal(t, 0.0, snap.WinRate.Float())

	assert.Error(t, json.Unmarshal([]byte(`{"winRate":true}`), &snap))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{OverallWinRate: "0.0"}, Summarize(nil))

	snaps := []Snapshot{
		{Datetime: "newest", GamesPlayed: 10, Wins: 6, Losses: 4, TotalProfit: 20},
		{Datetime: "middle", GamesPlayed: 5, Wins: 1, Losses: 3, Pushes: 1, TotalProfit: -12.5},
		{Datetime: "oldest", GamesPlayed: 5, Wins: 3, Losses: 2, TotalProfit: 2},
	}
	sum := Summarize(snaps)
	assert.Equal(t, 3, sum.TotalRecords)
	assert.Equal(t, 20, sum.TotalGames)
	assert.Equal(t, 10, sum.TotalWins)
	assert.Equal(t, 9, sum.TotalLosses)
	assert.InDelta(t, 9.5, sum.TotalProfit, 1e-9)
	assert.Equal(t, Percent("50.0"), sum.OverallWinRate)
	assert.Equal(t, "newest", sum.NewestRecord)
	assert.Equal(t, "oldest", sum.OldestRecord)
}
