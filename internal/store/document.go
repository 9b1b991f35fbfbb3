package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/statistics"
)

// Document is the persisted form of a session, one JSON object per session.
type Document struct {
	DealerHand       deck.Hand        `json:"dealerHand"`
	PlayerHand       deck.Hand        `json:"playerHand"`
	SplitHands       []deck.Hand      `json:"splitHands"`
	CurrentBet       int              `json:"currentBet"`
	Bankroll         float64          `json:"bankroll"`
	IsSplit          bool             `json:"isSplit"`
	IsDoubled        bool             `json:"isDoubled"`
	SplitHandDoubled []bool           `json:"splitHandDoubled"`
	SplitHandResults []*string        `json:"splitHandResults"`
	UseSuggestedBet  bool             `json:"useSuggestedBet"`
	CardCounting     counting.State   `json:"cardCounting"`
	Stats            statistics.Stats `json:"stats"`
}

// legacyKeys maps older field names onto their current ones.
var legacyKeys = map[string]string{
	"dealerCards": "dealerHand",
	"playerCards": "playerHand",
}

// Encode converts a session into its document.
func Encode(s *session.State) Document {
	doc := Document{
		DealerHand:       orEmpty(s.Dealer),
		PlayerHand:       orEmpty(s.Player),
		SplitHands:       make([]deck.Hand, len(s.Splits)),
		CurrentBet:       s.CurrentBet,
		Bankroll:         s.Bankroll,
		IsSplit:          s.IsSplit(),
		IsDoubled:        s.Doubled,
		SplitHandDoubled: make([]bool, len(s.Splits)),
		SplitHandResults: make([]*string, len(s.Splits)),
		UseSuggestedBet:  s.UseSuggestedBet,
		CardCounting:     s.Counting,
		Stats:            s.Stats,
	}
	for i, h := range s.Splits {
		doc.SplitHands[i] = orEmpty(h.Cards)
		doc.SplitHandDoubled[i] = h.Doubled
		if h.Resolved() {
			r := h.Result.String()
			doc.SplitHandResults[i] = &r
		}
	}
	return doc
}

// Decode rebuilds a session from a stored document. Fields that are missing
// keep the value of a fresh session built from defaults; fields that fail to
// decode are skipped and reported in the returned error. The state is never
// nil, so callers may log the error and carry on.
func Decode(data []byte, defaults session.Options) (*session.State, error) {
	doc := Encode(session.New(defaults))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return session.New(defaults), fmt.Errorf("decode session document: %w", err)
	}

	targets := map[string]func(json.RawMessage) error{
		"dealerHand":       field(&doc.DealerHand),
		"playerHand":       field(&doc.PlayerHand),
		"splitHands":       field(&doc.SplitHands),
		"currentBet":       field(&doc.CurrentBet),
		"bankroll":         field(&doc.Bankroll),
		"isSplit":          field(&doc.IsSplit),
		"isDoubled":        field(&doc.IsDoubled),
		"splitHandDoubled": field(&doc.SplitHandDoubled),
		"splitHandResults": field(&doc.SplitHandResults),
		"useSuggestedBet":  field(&doc.UseSuggestedBet),
		"cardCounting":     field(&doc.CardCounting),
		"stats":            field(&doc.Stats),
	}

	var errs []error
	for key, raw := range fields {
		if current, ok := legacyKeys[key]; ok {
			if _, both := fields[current]; both {
				continue
			}
			key = current
		}
		decode, ok := targets[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := decode(raw); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", key, err))
		}
	}

	return doc.State(), errors.Join(errs...)
}

// State converts the document into a session, repairing values a session
// never holds: bets below 1, negative bankrolls, split flags without hands
// and per-hand slices of the wrong length.
func (d Document) State() *session.State {
	s := &session.State{
		Dealer:          orEmpty(d.DealerHand.Clone()),
		Player:          orEmpty(d.PlayerHand.Clone()),
		CurrentBet:      max(1, d.CurrentBet),
		Bankroll:        max(0, d.Bankroll),
		Doubled:         d.IsDoubled,
		UseSuggestedBet: d.UseSuggestedBet,
		Counting:        d.CardCounting,
		Stats:           d.Stats,
	}
	if s.Counting.InitialDecks <= 0 {
		s.Counting = counting.NewState(0)
	}
	if s.Counting.TotalCards <= 0 {
		s.Counting.TotalCards = s.Counting.InitialDecks * counting.DeckSize
	}

	if d.IsSplit && len(d.SplitHands) > 0 {
		s.Splits = make([]session.SplitHand, len(d.SplitHands))
		for i, cards := range d.SplitHands {
			h := session.SplitHand{Cards: orEmpty(cards.Clone())}
			if i < len(d.SplitHandDoubled) {
				h.Doubled = d.SplitHandDoubled[i]
			}
			if i < len(d.SplitHandResults) && d.SplitHandResults[i] != nil {
				h.Result = parseResult(*d.SplitHandResults[i])
			}
			s.Splits[i] = h
		}
		s.Player = deck.Hand{}
		s.Doubled = false
	}
	return s
}

// field decodes into a copy of *dst so a failed decode leaves the default in
// place. Objects merge over the default, so missing sub-fields keep it too.
func field[T any](dst *T) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		v := *dst
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func parseResult(s string) session.Result {
	switch s {
	case "win":
		return session.Win
	case "loss":
		return session.Loss
	case "push":
		return session.Push
	default:
		return session.Pending
	}
}

func orEmpty(h deck.Hand) deck.Hand {
	if h == nil {
		return deck.Hand{}
	}
	return h
}
