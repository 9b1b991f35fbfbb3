package strategy

import (
	"fmt"

	"github.com/lox/blackjack-advisor/internal/deck"
)

// Action is the primary recommendation for a hand.
type Action int

const (
	Wait Action = iota
	Blackjack
	Bust
	Split
	Double
	Stand
	Hit
	Surrender
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Blackjack:
		return "blackjack"
	case Bust:
		return "bust"
	case Split:
		return "split"
	case Double:
		return "double"
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Terminal reports whether the hand is finished regardless of the dealer.
func (a Action) Terminal() bool {
	return a == Blackjack || a == Bust
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	for c := Wait; c <= Surrender; c++ {
		if c.String() == string(text) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// Insurance is the side recommendation offered when the dealer shows an Ace
// and the player holds two cards. It never replaces the primary action.
type Insurance int

const (
	// NoInsuranceOffer means insurance does not apply to this hand.
	NoInsuranceOffer Insurance = iota
	TakeInsurance
	DeclineInsurance
)

// InsuranceThreshold is the true count at which insurance becomes profitable.
const InsuranceThreshold = 3.0

// String returns the wire name of the insurance advice.
func (i Insurance) String() string {
	switch i {
	case TakeInsurance:
		return "insurance"
	case DeclineInsurance:
		return "no-insurance"
	default:
		return ""
	}
}

// MarshalText encodes the insurance advice by name.
func (i Insurance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes insurance advice. An empty name means no offer.
func (i *Insurance) UnmarshalText(text []byte) error {
	for c := NoInsuranceOffer; c <= DeclineInsurance; c++ {
		if c.String() == string(text) {
			*i = c
			return nil
		}
	}
	return fmt.Errorf("unknown insurance advice %q", text)
}

// Kind classifies which table produced a recommendation.
type Kind int

const (
	KindNone Kind = iota
	KindPair
	KindSoft
	KindHard
)

func (k Kind) String() string {
	switch k {
	case KindPair:
		return "pair"
	case KindSoft:
		return "soft"
	case KindHard:
		return "hard"
	default:
		return ""
	}
}

// Reason says why an action was chosen.
type Reason int

const (
	ReasonNoCards Reason = iota
	ReasonBlackjack
	ReasonBust
	// ReasonBasic is a count-independent basic strategy cell.
	ReasonBasic
	// ReasonCountAtLeast is a deviation taken because TC >= Threshold.
	ReasonCountAtLeast
	// ReasonCountBelow is a deviation taken because TC < Threshold.
	ReasonCountBelow
	// ReasonCannotDouble means basic strategy doubles but the hand has more
	// than two cards.
	ReasonCannotDouble
)

func (r Reason) String() string {
	switch r {
	case ReasonNoCards:
		return "no-cards"
	case ReasonBlackjack:
		return "blackjack"
	case ReasonBust:
		return "bust"
	case ReasonBasic:
		return "basic"
	case ReasonCountAtLeast:
		return "count-at-least"
	case ReasonCountBelow:
		return "count-below"
	case ReasonCannotDouble:
		return "cannot-double"
	default:
		return "unknown"
	}
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Rationale is the structured explanation of a recommendation.
type Rationale struct {
	Reason Reason
	Kind   Kind
	// Total is the player's hand total. For pairs it is the pair rank's value.
	Total     int
	Pair      deck.Rank
	Dealer    deck.Rank
	Threshold float64
}

// Recommendation is the advice for one hand.
type Recommendation struct {
	Action    Action
	Insurance Insurance
	Rationale Rationale
	// TrueCount is the rounded true count every threshold was compared with.
	TrueCount float64
}

// Deviation reports whether the count moved the decision away from (or
// confirmed it against) a count threshold.
func (r Recommendation) Deviation() bool {
	return r.Rationale.Reason == ReasonCountAtLeast || r.Rationale.Reason == ReasonCountBelow
}

// Details renders the rationale for display, e.g.
// "Hard 16 vs 10: stand (TC 1.2 >= 1)".
func (r Recommendation) Details() string {
	rat := r.Rationale
	switch rat.Reason {
	case ReasonNoCards:
		return "Add cards to get recommendations"
	case ReasonBlackjack:
		return "Blackjack"
	case ReasonBust:
		return "Bust"
	}

	head := r.situation()
	switch rat.Reason {
	case ReasonCountAtLeast:
		return fmt.Sprintf("%s: %s (TC %s >= %s)", head, r.Action, formatTC(r.TrueCount), formatThreshold(rat.Threshold))
	case ReasonCountBelow:
		return fmt.Sprintf("%s: %s (TC %s < %s)", head, r.Action, formatTC(r.TrueCount), formatThreshold(rat.Threshold))
	case ReasonCannotDouble:
		return fmt.Sprintf("%s: %s (can't double)", head, r.Action)
	default:
		return fmt.Sprintf("%s: %s", head, r.Action)
	}
}

// InsuranceDetails explains the insurance advice, or returns "" when
// insurance is not offered.
func (r Recommendation) InsuranceDetails() string {
	switch r.Insurance {
	case TakeInsurance:
		return fmt.Sprintf("True Count %s >= %s: insurance is profitable", formatTC(r.TrueCount), formatThreshold(InsuranceThreshold))
	case DeclineInsurance:
		return fmt.Sprintf("True Count %s < %s: insurance is not profitable", formatTC(r.TrueCount), formatThreshold(InsuranceThreshold))
	default:
		return ""
	}
}

func (r Recommendation) situation() string {
	rat := r.Rationale
	switch rat.Kind {
	case KindPair:
		return fmt.Sprintf("Pair of %ss vs %s", rat.Pair, rat.Dealer)
	case KindSoft:
		return fmt.Sprintf("Soft %d vs %s", rat.Total, rat.Dealer)
	default:
		return fmt.Sprintf("Hard %d vs %s", rat.Total, rat.Dealer)
	}
}

func formatTC(tc float64) string {
	s := fmt.Sprintf("%.1f", tc)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

func formatThreshold(th float64) string {
	return fmt.Sprintf("%g", th)
}
