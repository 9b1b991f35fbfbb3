package session

import "fmt"

// Outcome is what the operator records for a finished hand.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
	OutcomeSurrender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	case OutcomeSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// ParseOutcome parses "win", "loss", "push" or "surrender".
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "win", "w":
		return OutcomeWin, nil
	case "loss", "lose", "l":
		return OutcomeLoss, nil
	case "push", "p":
		return OutcomePush, nil
	case "surrender", "s":
		return OutcomeSurrender, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// Record applies an outcome to the single (non-split) hand.
func (s *State) Record(o Outcome, bet float64) bool {
	switch o {
	case OutcomeWin:
		return s.RecordWin(bet)
	case OutcomeLoss:
		return s.RecordLoss(bet)
	case OutcomePush:
		return s.RecordPush()
	case OutcomeSurrender:
		return s.RecordSurrender(bet)
	}
	return false
}

// RecordWin settles a winning single hand. A blackjack pays 1.5x, a doubled
// hand 2x, anything else 1x. Ignored while split.
func (s *State) RecordWin(bet float64) bool {
	if s.IsSplit() {
		return false
	}
	var profit float64
	switch {
	case s.Player.IsBlackjack():
		profit = bet * 1.5
	case s.Doubled:
		profit = bet * 2
	default:
		profit = bet
	}

	s.Stats.GamesPlayed++
	s.Stats.Wins++
	s.credit(profit)
	s.clearRound()
	return true
}

// RecordLoss settles a losing single hand, twice the bet when doubled.
// Ignored while split.
func (s *State) RecordLoss(bet float64) bool {
	if s.IsSplit() {
		return false
	}
	loss := bet
	if s.Doubled {
		loss = bet * 2
	}

	s.Stats.GamesPlayed++
	s.Stats.Losses++
	s.debit(loss)
	s.clearRound()
	return true
}

// RecordPush settles a tied single hand. Ignored while split.
func (s *State) RecordPush() bool {
	if s.IsSplit() {
		return false
	}
	s.Stats.GamesPlayed++
	s.Stats.Pushes++
	s.clearRound()
	return true
}

// RecordSurrender forfeits half the bet, doubled or not, and counts as a
// loss. Ignored while split.
func (s *State) RecordSurrender(bet float64) bool {
	if s.IsSplit() {
		return false
	}
	s.Stats.GamesPlayed++
	s.Stats.Losses++
	s.debit(bet * 0.5)
	s.clearRound()
	return true
}

// RecordSplitResult settles split sub-hand i using that hand's own double
// multiplier. Surrender loses half and is recorded as a loss. Once every
// sub-hand is settled the round counts as one game and the table is cleared.
// Out-of-range or already settled hands are ignored.
func (s *State) RecordSplitResult(i int, o Outcome, bet float64) bool {
	if !s.validSplit(i) || s.Splits[i].Resolved() {
		return false
	}
	h := &s.Splits[i]
	stake := bet
	if h.Doubled {
		stake = bet * 2
	}

	switch o {
	case OutcomeWin:
		h.Result = Win
		s.Stats.Wins++
		s.credit(stake)
	case OutcomeLoss:
		h.Result = Loss
		s.Stats.Losses++
		s.debit(stake)
	case OutcomePush:
		h.Result = Push
		s.Stats.Pushes++
	case OutcomeSurrender:
		h.Result = Loss
		s.Stats.Losses++
		s.debit(stake * 0.5)
	default:
		return false
	}

	for _, h := range s.Splits {
		if !h.Resolved() {
			return true
		}
	}
	s.Stats.GamesPlayed++
	s.clearRound()
	return true
}

func (s *State) credit(amount float64) {
	s.Stats.TotalProfit += amount
	s.Bankroll += amount
}

// debit never takes the bankroll below zero; TotalProfit records the full loss.
func (s *State) debit(amount float64) {
	s.Stats.TotalProfit -= amount
	s.Bankroll = max(0, s.Bankroll-amount)
}
