// Package statistics holds cumulative session statistics and the snapshot
// records archived to the history store.
package statistics

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Stats are cumulative session counters since the last reset. A split round
// counts once in GamesPlayed but each sub-hand adds to Wins, Losses or
// Pushes, so those may sum to more than GamesPlayed.
type Stats struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	TotalProfit float64 `json:"totalProfit"`
}

// WinRate returns wins as a percentage of games played
func (s Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// ProfitPerGame returns the mean profit per game played
func (s Stats) ProfitPerGame() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.TotalProfit / float64(s.GamesPlayed)
}

// Validate checks the counters are not negative
func (s Stats) Validate() error {
	if s.GamesPlayed < 0 || s.Wins < 0 || s.Losses < 0 || s.Pushes < 0 {
		return fmt.Errorf("negative counter in stats: %+v", s)
	}
	return nil
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// Percent is a percentage stored as a one-decimal string ("54.5"). It also
// decodes plain JSON numbers, which older exports used for empty sessions.
type Percent string

// UnmarshalJSON accepts a string or a number.
func (p *Percent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Percent(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("win rate must be a string or number: %w", err)
	}
	*p = Percent(FormatPercent(f))
	return nil
}

// Float parses the percentage, returning 0 when it is not numeric.
func (p Percent) Float() float64 {
	f, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return 0
	}
	return f
}

// Layouts for the human-readable snapshot fields.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "3:04:05 PM"
	DatetimeLayout = "1/2/2006, 3:04:05 PM"
)

// Snapshot is an archived copy of Stats. ID is assigned by the store.
type Snapshot struct {
	ID          int64   `json:"id,omitempty"`
	Timestamp   int64   `json:"timestamp"` // Unix milliseconds
	Date        string  `json:"date"`      // UTC calendar date
	Time        string  `json:"time"`
	Datetime    string  `json:"datetime"`
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	TotalProfit float64 `json:"totalProfit"`
	WinRate     Percent `json:"winRate"`
}

// NewSnapshot captures stats at the given instant. Time and Datetime use the
// instant's location; Date is always the UTC date.
func NewSnapshot(stats Stats, now time.Time) Snapshot {
	return Snapshot{
		Timestamp:   now.UnixMilli(),
		Date:        now.UTC().Format(DateLayout),
		Time:        now.Format(TimeLayout),
		Datetime:    now.Format(DatetimeLayout),
		GamesPlayed: stats.GamesPlayed,
		Wins:        stats.Wins,
		Losses:      stats.Losses,
		Pushes:      stats.Pushes,
		TotalProfit: stats.TotalProfit,
		WinRate:     Percent(FormatPercent(stats.WinRate())),
	}
}

// Stats returns the counters captured in the snapshot.
func (s Snapshot) Stats() Stats {
	return Stats{
		GamesPlayed: s.GamesPlayed,
		Wins:        s.Wins,
		Losses:      s.Losses,
		Pushes:      s.Pushes,
		TotalProfit: s.TotalProfit,
	}
}

// Summary aggregates every archived snapshot.
type Summary struct {
	TotalRecords   int     `json:"totalRecords"`
	TotalProfit    float64 `json:"totalProfit"`
	TotalGames     int     `json:"totalGames"`
	TotalWins      int     `json:"totalWins"`
	TotalLosses    int     `json:"totalLosses"`
	OverallWinRate Percent `json:"overallWinRate"`
	OldestRecord   string  `json:"oldestRecord,omitempty"`
	NewestRecord   string  `json:"newestRecord,omitempty"`
}

// Summarize aggregates snapshots ordered newest first, as returned by the
// history store.
func Summarize(snapshots []Snapshot) Summary {
	var sum Summary
	sum.TotalRecords = len(snapshots)
	for _, s := range snapshots {
		sum.TotalProfit += s.TotalProfit
		sum.TotalGames += s.GamesPlayed
		sum.TotalWins += s.Wins
		sum.TotalLosses += s.Losses
	}

	overall := Stats{GamesPlayed: sum.TotalGames, Wins: sum.TotalWins}
	sum.OverallWinRate = Percent(FormatPercent(overall.WinRate()))

	if len(snapshots) > 0 {
		sum.NewestRecord = snapshots[0].Datetime
		sum.OldestRecord = snapshots[len(snapshots)-1].Datetime
	}
	return sum
}
