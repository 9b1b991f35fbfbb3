package deck

import "strings"

// Hand is an ordered sequence of ranks. Order does not affect value.
type Hand []Rank

// totals returns the sum with every Ace at 11 and the number of Aces.
func (h Hand) totals() (total, aces int) {
	for _, r := range h {
		if r == Ace {
			aces++
		}
		total += r.Value()
	}
	return total, aces
}

// Value returns the best total not exceeding 21, or the minimal bust total
// when every Ace is already counted as 1. An empty hand is worth 0.
func (h Hand) Value() int {
	total, aces := h.totals()
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether at least one Ace is still counted as 11 in the best
// total.
func (h Hand) IsSoft() bool {
	if len(h) == 0 {
		return false
	}
	total, aces := h.totals()
	if aces == 0 {
		return false
	}
	if total <= 21 {
		return true
	}
	minimum := total - aces*10
	return minimum+10 <= 21
}

// HasAce reports whether the hand contains an Ace.
func (h Hand) HasAce() bool {
	for _, r := range h {
		if r == Ace {
			return true
		}
	}
	return false
}

// CanDouble reports whether the hand has exactly two cards.
func (h Hand) CanDouble() bool {
	return len(h) == 2
}

// CanSplit reports whether the hand is a two-card pair of the same symbol.
// 10 and K are not a pair.
func (h Hand) CanSplit() bool {
	return len(h) == 2 && h[0] == h[1]
}

// IsBlackjack reports a two-card 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust reports whether the best total exceeds 21.
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// Clone returns a copy that does not share storage with h.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// String renders the hand as space separated symbols, e.g. "A 10 5".
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, r := range h {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
