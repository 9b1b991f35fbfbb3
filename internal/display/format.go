// Package display formats advisor values for terminals: money with two
// decimals, true counts and win rates with one, and action labels.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/statistics"
	"github.com/lox/blackjack-advisor/internal/strategy"
)

// Money formats an amount in dollars with two decimals: "$15.00", "-$5.00".
func Money(v float64) string {
	if v < 0 && math.Abs(v) >= 0.005 {
		return fmt.Sprintf("-$%.2f", math.Abs(v))
	}
	return fmt.Sprintf("$%.2f", math.Abs(v))
}

// SignedMoney is Money with an explicit plus sign on gains.
func SignedMoney(v float64) string {
	s := Money(v)
	if !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}

// TrueCount formats a true count with one decimal.
func TrueCount(tc float64) string {
	return fmt.Sprintf("%.1f", counting.RoundTenth(tc))
}

// RunningCount formats a running count with an explicit sign.
func RunningCount(rc int) string {
	if rc > 0 {
		return fmt.Sprintf("+%d", rc)
	}
	return fmt.Sprintf("%d", rc)
}

// WinRate formats a stored win rate as a percentage.
func WinRate(p statistics.Percent) string {
	return string(p) + "%"
}

// StatsWinRate formats the live win rate of stats.
func StatsWinRate(s statistics.Stats) string {
	return statistics.FormatPercent(s.WinRate()) + "%"
}

// ActionLabel is the headline shown for an action.
func ActionLabel(a strategy.Action) string {
	switch a {
	case strategy.Wait:
		return "WAITING"
	case strategy.Blackjack:
		return "BLACKJACK! 🎉"
	case strategy.Bust:
		return "BUST! 💥"
	case strategy.Split:
		return "SPLIT"
	case strategy.Double:
		return "DOUBLE"
	case strategy.Stand:
		return "STAND"
	case strategy.Hit:
		return "HIT"
	case strategy.Surrender:
		return "SURRENDER"
	}
	return strings.ToUpper(a.String())
}

// InsuranceLabel is the headline for the insurance side advice, or "" when
// insurance is not on offer.
func InsuranceLabel(i strategy.Insurance) string {
	switch i {
	case strategy.TakeInsurance:
		return "BUY INSURANCE 🛡️"
	case strategy.DeclineInsurance:
		return "NO INSURANCE ❌"
	}
	return ""
}

// Hand formats cards with their value, e.g. "A 6 (soft 17)". Empty hands
// render as "-".
func Hand(h deck.Hand) string {
	if len(h) == 0 {
		return "-"
	}
	kind := "hard"
	switch {
	case h.IsBlackjack():
		kind = "blackjack"
	case h.IsBust():
		kind = "bust"
	case h.IsSoft():
		kind = "soft"
	}
	return fmt.Sprintf("%s (%s %d)", h, kind, h.Value())
}

// Bet describes a suggested bet, e.g. "4 units (Positive count - bet 4x)".
func Bet(b counting.Bet) string {
	unit := "units"
	if b.Units() == 1 {
		unit = "unit"
	}
	return fmt.Sprintf("%d %s (%s)", b.Units(), unit, b.Tier.Label())
}
