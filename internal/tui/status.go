package tui

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/session"
)

// Status renders the session panel: hands, bet, bankroll, count and
// statistics.
func Status(s *session.State) string {
	var lines []string
	add := func(label, value string) {
		lines = append(lines, display.Field(label, value))
	}

	lines = append(lines, display.HeaderStyle.Render("Table"))
	add("Dealer", display.Hand(s.Dealer))
	if s.IsSplit() {
		for i, h := range s.Splits {
			value := display.Hand(h.Cards)
			if h.Doubled {
				value += " x2"
			}
			if h.Resolved() {
				value += " " + strings.ToUpper(h.Result.String())
			}
			add(fmt.Sprintf("Hand %d", i+1), value)
		}
	} else {
		value := display.Hand(s.Player)
		if s.Doubled {
			value += " x2"
		}
		add("Player", value)
	}

	lines = append(lines, "", display.HeaderStyle.Render("Bet"))
	bet := display.Money(s.EffectiveBet())
	if s.UseSuggestedBet {
		bet += " (auto)"
	}
	add("Bet", bet)
	add("Suggested", display.Bet(s.SuggestedBet()))
	add("Bankroll", display.Money(s.Bankroll))

	c := s.Counting
	lines = append(lines, "", display.HeaderStyle.Render("Count"))
	add("Running", display.RunningCount(c.RunningCount))
	add("True", display.TrueCount(c.TrueCount()))
	add("Dealt", fmt.Sprintf("%d/%d (%.1f decks left)", c.CardsDealt, c.TotalCards, c.DecksRemaining()))

	st := s.Stats
	lines = append(lines, "", display.HeaderStyle.Render("Session"))
	add("Games", fmt.Sprintf("%d (%d-%d-%d)", st.GamesPlayed, st.Wins, st.Losses, st.Pushes))
	add("Win rate", display.StatsWinRate(st))
	lines = append(lines, display.LabelStyle.Render("Profit:")+" "+
		display.MoneyStyle(st.TotalProfit).Render(display.Money(st.TotalProfit)))

	return strings.Join(lines, "\n")
}

// Advice renders the recommendation for the single hand, or one block per
// unresolved split hand.
func Advice(s *session.State) string {
	if !s.IsSplit() {
		return display.Recommendation(s.Advice())
	}
	var blocks []string
	for i, rec := range s.SplitAdvice() {
		if s.Splits[i].Resolved() {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Hand %d: %s", i+1, display.Recommendation(rec)))
	}
	if len(blocks) == 0 {
		return display.InfoStyle.Render("All hands settled")
	}
	return strings.Join(blocks, "\n")
}
