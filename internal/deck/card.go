// Package deck models blackjack card ranks and hands. Suits are not modeled:
// they affect neither hand value nor the count.
package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRank is returned when a symbol is not one of the 13 rank symbols.
var ErrUnknownRank = errors.New("unknown card rank")

// Rank represents a card rank
type Rank int

// NoRank is the zero Rank. It stands for "no card" and for any symbol the
// parser does not recognise; it is worth 0 everywhere.
const NoRank Rank = 0

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every valid rank in display order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the rank symbol as entered by the operator
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the 13 ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Value returns the hard value of the rank with Aces counted as 11.
// Invalid ranks are worth 0.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten && r <= King:
		return 10
	case r >= Two && r <= Nine:
		return int(r)
	default:
		return 0
	}
}

// IsAce returns true if the rank is an Ace
func (r Rank) IsAce() bool {
	return r == Ace
}

// IsTenValue returns true for 10, J, Q and K.
func (r Rank) IsTenValue() bool {
	return r >= Ten && r <= King
}

// MarshalText encodes the rank as its symbol.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRank, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rank symbol.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRank parses a single rank symbol. It is case-insensitive and accepts
// "T" as an alias for "10".
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return Ace, nil
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	return NoRank, fmt.Errorf("%w: %q", ErrUnknownRank, s)
}

// ParseCards parses a list of rank symbols. Symbols may be separated by
// commas or whitespace, or run together ("AK", "1010", "A,10 5").
func ParseCards(s string) (Hand, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	hand := Hand{}
	for _, field := range fields {
		if rank, err := ParseRank(field); err == nil {
			hand = append(hand, rank)
			continue
		}
		run, err := parseRun(field)
		if err != nil {
			return nil, err
		}
		hand = append(hand, run...)
	}
	return hand, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) Hand {
	hand, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return hand
}

func parseRun(s string) (Hand, error) {
	var hand Hand
	for i := 0; i < len(s); i++ {
		symbol := s[i : i+1]
		if s[i] == '1' {
			if i+1 >= len(s) || s[i+1] != '0' {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownRank, symbol, s)
			}
			symbol = "10"
			i++
		}
		rank, err := ParseRank(symbol)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, s)
		}
		hand = append(hand, rank)
	}
	return hand, nil
}
