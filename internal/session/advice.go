package session

import "github.com/lox/blackjack-advisor/internal/strategy"

// Advice recommends an action for the single hand against the dealer's
// up-card.
func (s *State) Advice() strategy.Recommendation {
	return strategy.Recommend(s.Player, s.DealerUpCard(), s.Counting)
}

// SplitAdvice recommends an action for every split sub-hand, in order.
func (s *State) SplitAdvice() []strategy.Recommendation {
	recs := make([]strategy.Recommendation, len(s.Splits))
	for i, h := range s.Splits {
		recs[i] = strategy.Recommend(h.Cards, s.DealerUpCard(), s.Counting)
	}
	return recs
}
