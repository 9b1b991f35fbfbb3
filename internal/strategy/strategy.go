// Package strategy recommends a blackjack action from the player's hand, the
// dealer's up-card and the Hi-Lo count, layering count-based deviations over
// basic strategy.
package strategy

import (
	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
)

// Recommend returns the advice for a hand. A missing (deck.NoRank) or invalid
// dealer up-card yields Wait, the same as an empty hand.
//
// Evaluation order: wait, blackjack, bust, pairs, soft totals, hard totals.
// Insurance is decided independently and attached to whatever action wins.
func Recommend(player deck.Hand, dealer deck.Rank, counts counting.State) Recommendation {
	tc := counts.TrueCount()

	if len(player) == 0 || !dealer.Valid() {
		return Recommendation{
			Action:    Wait,
			Rationale: Rationale{Reason: ReasonNoCards, Dealer: dealer},
			TrueCount: tc,
		}
	}

	rec := evaluate(player, dealer, tc)
	rec.TrueCount = tc
	rec.Insurance = insurance(player, dealer, tc)
	return rec
}

func insurance(player deck.Hand, dealer deck.Rank, tc float64) Insurance {
	if dealer != deck.Ace || len(player) != 2 {
		return NoInsuranceOffer
	}
	if tc >= InsuranceThreshold {
		return TakeInsurance
	}
	return DeclineInsurance
}

func evaluate(player deck.Hand, dealer deck.Rank, tc float64) Recommendation {
	total := player.Value()

	if player.IsBlackjack() {
		return Recommendation{Action: Blackjack, Rationale: Rationale{Reason: ReasonBlackjack, Total: total, Dealer: dealer}}
	}
	if total > 21 {
		return Recommendation{Action: Bust, Rationale: Rationale{Reason: ReasonBust, Total: total, Dealer: dealer}}
	}

	c := cell{dealer: dealer, up: dealer.Value(), total: total, tc: tc, canDouble: player.CanDouble()}
	switch {
	case player.CanSplit():
		c.kind = KindPair
		c.pair = player[0]
		c.total = player[0].Value()
		return c.pairs()
	case player.IsSoft() && player.HasAce():
		c.kind = KindSoft
		return c.soft()
	default:
		c.kind = KindHard
		return c.hard()
	}
}

// cell is one lookup in the strategy tables.
type cell struct {
	kind      Kind
	pair      deck.Rank
	total     int
	dealer    deck.Rank
	up        int // dealer up-card value, Ace = 11
	tc        float64
	canDouble bool
}

func (c cell) rationale(reason Reason, threshold float64) Rationale {
	return Rationale{
		Reason:    reason,
		Kind:      c.kind,
		Total:     c.total,
		Pair:      c.pair,
		Dealer:    c.dealer,
		Threshold: threshold,
	}
}

func (c cell) basic(a Action) Recommendation {
	return Recommendation{Action: a, Rationale: c.rationale(ReasonBasic, 0)}
}

func (c cell) atLeast(a Action, threshold float64) Recommendation {
	return Recommendation{Action: a, Rationale: c.rationale(ReasonCountAtLeast, threshold)}
}

func (c cell) below(a Action, threshold float64) Recommendation {
	return Recommendation{Action: a, Rationale: c.rationale(ReasonCountBelow, threshold)}
}

func (c cell) cannotDouble(a Action) Recommendation {
	return Recommendation{Action: a, Rationale: c.rationale(ReasonCannotDouble, 0)}
}

func (c cell) upIn(lo, hi int) bool {
	return c.up >= lo && c.up <= hi
}

func (c cell) pairs() Recommendation {
	switch c.pair {
	case deck.Ace, deck.Eight:
		return c.basic(Split)
	case deck.Ten, deck.Jack, deck.Queen, deck.King:
		return c.basic(Stand)
	case deck.Nine:
		if c.upIn(2, 6) || c.up == 8 || c.up == 9 {
			return c.basic(Split)
		}
		return c.basic(Stand)
	case deck.Seven:
		if c.upIn(2, 7) {
			return c.basic(Split)
		}
		return c.basic(Hit)
	case deck.Six:
		if c.upIn(2, 6) {
			return c.basic(Split)
		}
		return c.basic(Hit)
	case deck.Five:
		// Fives play as hard 10 and are never split.
		if c.upIn(2, 9) {
			return c.basic(Double)
		}
		return c.basic(Hit)
	case deck.Four:
		if c.upIn(5, 6) {
			return c.basic(Split)
		}
		return c.basic(Hit)
	case deck.Three, deck.Two:
		if c.upIn(4, 7) {
			return c.basic(Split)
		}
		return c.basic(Hit)
	}
	return c.basic(Hit)
}

func (c cell) soft() Recommendation {
	switch {
	case c.total >= 20:
		return c.basic(Stand)
	case c.total == 19:
		if c.up == 6 && c.canDouble {
			return c.basic(Double)
		}
		return c.basic(Stand)
	case c.total == 18:
		if c.upIn(2, 6) && c.canDouble {
			return c.basic(Double)
		}
		if c.upIn(9, 11) {
			return c.basic(Hit)
		}
		return c.basic(Stand)
	case c.total == 17:
		if c.upIn(3, 6) && c.canDouble {
			return c.basic(Double)
		}
		return c.basic(Hit)
	case c.total >= 13:
		if c.upIn(4, 6) && c.canDouble {
			return c.basic(Double)
		}
		return c.basic(Hit)
	}
	return c.basic(Hit)
}

// hard applies the hard-total table. At each total/up-card pair surrender is
// checked first and is final, then the count deviation, then basic strategy.
func (c cell) hard() Recommendation {
	tc := c.tc
	switch {
	case c.total >= 17:
		if c.total == 17 && c.up == 11 {
			return c.basic(Surrender)
		}
		return c.basic(Stand)

	case c.total == 16:
		switch {
		case c.upIn(2, 6):
			return c.basic(Stand)
		case c.up == 9:
			if tc < 0 {
				return c.below(Surrender, 0)
			}
			if tc >= 5 {
				return c.atLeast(Stand, 5)
			}
			return c.basic(Hit)
		case c.up == 10:
			if tc < 0 {
				return c.below(Surrender, 0)
			}
			if tc >= 1 {
				return c.atLeast(Stand, 1)
			}
			return c.basic(Hit)
		case c.up == 11:
			return c.basic(Surrender)
		}
		return c.basic(Hit)

	case c.total == 15:
		switch {
		case c.upIn(2, 6):
			return c.basic(Stand)
		case c.up == 10:
			if tc < 0 {
				return c.below(Surrender, 0)
			}
			if tc >= 4 {
				return c.atLeast(Stand, 4)
			}
			return c.basic(Hit)
		case c.up == 9:
			if tc >= 2 {
				return c.atLeast(Stand, 2)
			}
			return c.basic(Hit)
		case c.up == 11:
			if tc >= 1 {
				return c.atLeast(Stand, 1)
			}
			return c.basic(Hit)
		}
		return c.basic(Hit)

	case c.total == 14:
		switch {
		case c.upIn(2, 6):
			return c.basic(Stand)
		case c.up == 10:
			if tc < -1 {
				return c.below(Surrender, -1)
			}
			if tc >= 3 {
				return c.atLeast(Stand, 3)
			}
			return c.basic(Hit)
		}
		return c.basic(Hit)

	case c.total == 13:
		switch {
		case c.up == 2:
			if tc >= -1 {
				return c.atLeast(Stand, -1)
			}
			return c.below(Hit, -1)
		case c.upIn(3, 6):
			return c.basic(Stand)
		}
		return c.basic(Hit)

	case c.total == 12:
		switch {
		case c.up == 2 || c.up == 3:
			if tc >= 2 {
				return c.atLeast(Stand, 2)
			}
			return c.basic(Hit)
		case c.up == 4:
			return c.standAnyway(3)
		case c.up == 5:
			return c.standAnyway(1)
		case c.up == 6:
			return c.standAnyway(-1)
		}
		return c.basic(Hit)

	case c.total == 11:
		if !c.canDouble {
			return c.cannotDouble(Hit)
		}
		if c.up == 11 {
			if tc >= 1 {
				return c.atLeast(Double, 1)
			}
			return c.below(Hit, 1)
		}
		return c.basic(Double)

	case c.total == 10:
		if !c.canDouble {
			if c.upIn(2, 9) {
				return c.cannotDouble(Hit)
			}
			return c.basic(Hit)
		}
		switch {
		case c.up == 10 || c.up == 11:
			if tc >= 4 {
				return c.atLeast(Double, 4)
			}
			return c.basic(Hit)
		case c.upIn(2, 9):
			return c.basic(Double)
		}
		return c.basic(Hit)

	case c.total == 9:
		if !c.canDouble {
			if c.upIn(2, 6) {
				return c.cannotDouble(Hit)
			}
			return c.basic(Hit)
		}
		switch {
		case c.up == 2:
			if tc >= 1 {
				return c.atLeast(Double, 1)
			}
			return c.below(Hit, 1)
		case c.upIn(3, 6):
			return c.basic(Double)
		}
		return c.basic(Hit)
	}

	return c.basic(Hit)
}

// standAnyway covers 12 against 4-6: the deviation index is reported when the
// count reaches it, but basic strategy stands there as well.
func (c cell) standAnyway(threshold float64) Recommendation {
	if c.tc >= threshold {
		return c.atLeast(Stand, threshold)
	}
	return c.basic(Stand)
}
