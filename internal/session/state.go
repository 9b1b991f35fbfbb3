// Package session owns the state of one advisory session: the hands on the
// table, the bet and bankroll, the shoe count and cumulative statistics. All
// mutation goes through methods on *State; nothing here is shared or global.
//
// Methods never fail. Actions the caller should have gated (doubling a
// three-card hand, recording a single-hand win while split, an out-of-range
// split index) leave the state unchanged and report false.
package session

import (
	"fmt"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/statistics"
)

const (
	DefaultBankroll = 1000
	DefaultBet      = 1
)

// Result is the recorded outcome of a split sub-hand.
type Result int

const (
	Pending Result = iota
	Win
	Loss
	Push
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	default:
		return "pending"
	}
}

// SplitHand is one hand of a split round. Its position in State.Splits is its
// only identity.
type SplitHand struct {
	Cards   deck.Hand
	Result  Result
	Doubled bool
}

// Resolved reports whether a result has been recorded for the hand.
func (h SplitHand) Resolved() bool {
	return h.Result != Pending
}

// TargetKind selects which hand a card operation applies to.
type TargetKind int

const (
	TargetDealer TargetKind = iota
	TargetPlayer
	TargetSplit
)

// Target identifies a hand: the dealer's, the player's, or a split sub-hand.
type Target struct {
	Kind  TargetKind
	Index int // split sub-hand index, only for TargetSplit
}

var (
	DealerTarget = Target{Kind: TargetDealer}
	PlayerTarget = Target{Kind: TargetPlayer}
)

// SplitTarget targets split sub-hand i.
func SplitTarget(i int) Target {
	return Target{Kind: TargetSplit, Index: i}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetDealer:
		return "dealer"
	case TargetPlayer:
		return "player"
	case TargetSplit:
		return fmt.Sprintf("hand %d", t.Index+1)
	default:
		return "unknown"
	}
}

// Options configure a fresh session.
type Options struct {
	Decks           int
	Bankroll        float64
	Bet             int
	UseSuggestedBet bool
}

// State is the full state of a session.
type State struct {
	Dealer deck.Hand
	// Player is the single hand; it is empty while the round is split.
	Player deck.Hand
	// Splits holds the sub-hands of a split round, empty otherwise.
	Splits []SplitHand

	CurrentBet      int
	Bankroll        float64
	Doubled         bool
	UseSuggestedBet bool

	Counting counting.State
	Stats    statistics.Stats
}

// New returns a fresh session. Zero options take the defaults: an 8-deck shoe,
// a bankroll of 1000 and a bet of 1.
func New(opts Options) *State {
	if opts.Bankroll <= 0 {
		opts.Bankroll = DefaultBankroll
	}
	if opts.Bet < 1 {
		opts.Bet = DefaultBet
	}
	return &State{
		Dealer:          deck.Hand{},
		Player:          deck.Hand{},
		CurrentBet:      opts.Bet,
		Bankroll:        opts.Bankroll,
		UseSuggestedBet: opts.UseSuggestedBet,
		Counting:        counting.NewState(opts.Decks),
	}
}

// IsSplit reports whether the round has been split.
func (s *State) IsSplit() bool {
	return len(s.Splits) > 0
}

// DealerUpCard returns the dealer's first card, or deck.NoRank.
func (s *State) DealerUpCard() deck.Rank {
	if len(s.Dealer) == 0 {
		return deck.NoRank
	}
	return s.Dealer[0]
}

// NextSplitIndex returns the sub-hand that receives the next player card while
// split: the lowest index among the unresolved hands with the fewest cards.
func (s *State) NextSplitIndex() (int, bool) {
	target := -1
	for i, h := range s.Splits {
		if h.Resolved() {
			continue
		}
		if target == -1 || len(h.Cards) < len(s.Splits[target].Cards) {
			target = i
		}
	}
	return target, target >= 0
}

// AddCard deals r into the target hand and counts it. Player cards go to the
// next split sub-hand while split. Returns false, without counting the card,
// when there is no such hand.
func (s *State) AddCard(t Target, r deck.Rank) bool {
	switch t.Kind {
	case TargetDealer:
		s.Dealer = append(s.Dealer, r)
	case TargetPlayer:
		if s.IsSplit() {
			i, ok := s.NextSplitIndex()
			if !ok {
				return false
			}
			s.Splits[i].Cards = append(s.Splits[i].Cards, r)
		} else {
			s.Player = append(s.Player, r)
		}
	case TargetSplit:
		if !s.validSplit(t.Index) {
			return false
		}
		s.Splits[t.Index].Cards = append(s.Splits[t.Index].Cards, r)
	default:
		return false
	}
	s.Counting.Add(r)
	return true
}

// RemoveCard takes back the card at pos in the target hand and uncounts it.
// For the player target while split, pos runs across all sub-hands in order.
func (s *State) RemoveCard(t Target, pos int) (deck.Rank, bool) {
	var hand *deck.Hand
	switch t.Kind {
	case TargetDealer:
		hand = &s.Dealer
	case TargetPlayer:
		if !s.IsSplit() {
			hand = &s.Player
			break
		}
		for i := range s.Splits {
			n := len(s.Splits[i].Cards)
			if pos < n {
				hand = &s.Splits[i].Cards
				break
			}
			pos -= n
		}
	case TargetSplit:
		if s.validSplit(t.Index) {
			hand = &s.Splits[t.Index].Cards
		}
	}
	if hand == nil || pos < 0 || pos >= len(*hand) {
		return deck.NoRank, false
	}

	r := (*hand)[pos]
	*hand = append((*hand)[:pos], (*hand)[pos+1:]...)
	s.Counting.Remove(r)
	return r, true
}

// ClearHand empties the target hand and takes its cards back out of the count.
// Clearing the player also ends a split round and any double.
func (s *State) ClearHand(t Target) bool {
	switch t.Kind {
	case TargetDealer:
		s.uncount(s.Dealer)
		s.Dealer = deck.Hand{}
	case TargetPlayer:
		s.uncount(s.Player)
		for _, h := range s.Splits {
			s.uncount(h.Cards)
		}
		s.Player = deck.Hand{}
		s.Splits = nil
		s.Doubled = false
	case TargetSplit:
		if !s.validSplit(t.Index) {
			return false
		}
		s.uncount(s.Splits[t.Index].Cards)
		s.Splits[t.Index] = SplitHand{Cards: deck.Hand{}}
	default:
		return false
	}
	return true
}

// Split splits the initial two-card pair into two sub-hands. Split hands are
// never split again.
func (s *State) Split() bool {
	if s.IsSplit() || !s.Player.CanSplit() {
		return false
	}
	s.Splits = []SplitHand{
		{Cards: deck.Hand{s.Player[0]}},
		{Cards: deck.Hand{s.Player[1]}},
	}
	s.Player = deck.Hand{}
	s.Doubled = false
	return true
}

// Double marks the single hand as doubled. Only two-card hands can double.
func (s *State) Double() bool {
	if s.IsSplit() || !s.Player.CanDouble() {
		return false
	}
	s.Doubled = true
	return true
}

// DoubleSplit marks split sub-hand i as doubled. The hand must be unresolved
// and hold exactly two cards.
func (s *State) DoubleSplit(i int) bool {
	if !s.validSplit(i) {
		return false
	}
	h := &s.Splits[i]
	if h.Resolved() || !h.Cards.CanDouble() {
		return false
	}
	h.Doubled = true
	return true
}

// NewHand clears the table for the next round. Dealt cards stay counted.
func (s *State) NewHand() {
	s.clearRound()
}

// Recount resets the shoe count.
func (s *State) Recount() {
	s.Counting.Reset()
}

// ResetStats zeroes the statistics and returns the previous values so the
// caller can archive them.
func (s *State) ResetStats() statistics.Stats {
	prev := s.Stats
	s.Stats = statistics.Stats{}
	return prev
}

// ClearAll resets the count, the table, the bet, the suggested-bet toggle
// and the statistics without archiving. The bankroll is kept.
func (s *State) ClearAll() {
	s.Counting.Reset()
	s.clearRound()
	s.CurrentBet = DefaultBet
	s.UseSuggestedBet = false
	s.Stats = statistics.Stats{}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Dealer = s.Dealer.Clone()
	c.Player = s.Player.Clone()
	if s.Splits != nil {
		c.Splits = make([]SplitHand, len(s.Splits))
		for i, h := range s.Splits {
			h.Cards = h.Cards.Clone()
			c.Splits[i] = h
		}
	}
	return &c
}

func (s *State) clearRound() {
	s.Dealer = deck.Hand{}
	s.Player = deck.Hand{}
	s.Splits = nil
	s.Doubled = false
}

func (s *State) uncount(h deck.Hand) {
	for _, r := range h {
		s.Counting.Remove(r)
	}
}

func (s *State) validSplit(i int) bool {
	return i >= 0 && i < len(s.Splits)
}
