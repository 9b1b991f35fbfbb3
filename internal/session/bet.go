package session

import "github.com/lox/blackjack-advisor/internal/counting"

// AdjustBet changes the bet by delta, never going below 1.
func (s *State) AdjustBet(delta int) {
	s.CurrentBet = max(1, s.CurrentBet+delta)
}

// SetBet sets the bet. Amounts below 1 are ignored.
func (s *State) SetBet(amount int) bool {
	if amount < 1 {
		return false
	}
	s.CurrentBet = amount
	return true
}

// SuggestedBet returns the count-based bet for the current shoe.
func (s *State) SuggestedBet() counting.Bet {
	return counting.SuggestedBet(s.Counting.TrueCount())
}

// EffectiveBet is the amount at risk this round: the suggested bet when
// UseSuggestedBet is on, the manual bet otherwise.
func (s *State) EffectiveBet() float64 {
	if s.UseSuggestedBet {
		return float64(s.SuggestedBet().Units())
	}
	return float64(s.CurrentBet)
}
