package server

import (
	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/statistics"
	"github.com/lox/blackjack-advisor/internal/strategy"
)

// StateData is the full picture of a session sent after every message.
type StateData struct {
	SessionID string `json:"sessionId"`
	// Message summarises the command that produced this state, if any.
	Message string `json:"message,omitempty"`

	Dealer     HandView        `json:"dealer"`
	Player     *HandView       `json:"player,omitempty"`
	SplitHands []SplitHandView `json:"splitHands,omitempty"`
	Doubled    bool            `json:"isDoubled"`

	Recommendations []RecommendationView `json:"recommendations"`

	Counting CountingView `json:"counting"`
	Bet      BetView      `json:"bet"`
	Bankroll float64      `json:"bankroll"`
	Stats    StatsView    `json:"stats"`
}

type HandView struct {
	Cards     deck.Hand `json:"cards"`
	Value     int       `json:"value"`
	Soft      bool      `json:"soft"`
	Blackjack bool      `json:"blackjack"`
	Bust      bool      `json:"bust"`
}

type SplitHandView struct {
	HandView
	Doubled bool   `json:"doubled"`
	Result  string `json:"result"`
}

// RecommendationView is the advice for one hand. Hand is the one-based split
// hand number, or zero for the single player hand.
type RecommendationView struct {
	Hand             int                `json:"hand,omitempty"`
	Action           strategy.Action    `json:"action"`
	Label            string             `json:"label"`
	Details          string             `json:"details,omitempty"`
	Deviation        bool               `json:"deviation"`
	Insurance        strategy.Insurance `json:"insurance,omitempty"`
	InsuranceDetails string             `json:"insuranceDetails,omitempty"`
}

type CountingView struct {
	counting.State
	TrueCount      float64 `json:"trueCount"`
	DecksRemaining float64 `json:"decksRemaining"`
}

type BetView struct {
	Current         int     `json:"currentBet"`
	Suggested       int     `json:"suggestedBet"`
	Tier            string  `json:"tier"`
	Label           string  `json:"label"`
	UseSuggestedBet bool    `json:"useSuggestedBet"`
	Effective       float64 `json:"effectiveBet"`
}

type StatsView struct {
	statistics.Stats
	WinRate statistics.Percent `json:"winRate"`
}

// NewStateData renders s. The caller must hold the session lock.
func NewStateData(id string, s *session.State, message string) StateData {
	suggested := s.SuggestedBet()
	data := StateData{
		SessionID: id,
		Message:   message,
		Dealer:    handView(s.Dealer),
		Doubled:   s.Doubled,
		Counting: CountingView{
			State:          s.Counting,
			TrueCount:      s.Counting.TrueCount(),
			DecksRemaining: counting.RoundTenth(s.Counting.DecksRemaining()),
		},
		Bet: BetView{
			Current:         s.CurrentBet,
			Suggested:       suggested.Units(),
			Tier:            suggested.Tier.String(),
			Label:           suggested.Tier.Label(),
			UseSuggestedBet: s.UseSuggestedBet,
			Effective:       s.EffectiveBet(),
		},
		Bankroll: s.Bankroll,
		Stats: StatsView{
			Stats:   s.Stats,
			WinRate: statistics.Percent(statistics.FormatPercent(s.Stats.WinRate())),
		},
		Recommendations: []RecommendationView{},
	}

	if !s.IsSplit() {
		player := handView(s.Player)
		data.Player = &player
		data.Recommendations = append(data.Recommendations, recommendationView(0, s.Advice()))
		return data
	}

	recs := s.SplitAdvice()
	for i, h := range s.Splits {
		data.SplitHands = append(data.SplitHands, SplitHandView{
			HandView: handView(h.Cards),
			Doubled:  h.Doubled,
			Result:   h.Result.String(),
		})
		if !h.Resolved() {
			data.Recommendations = append(data.Recommendations, recommendationView(i+1, recs[i]))
		}
	}
	return data
}

func handView(h deck.Hand) HandView {
	if h == nil {
		h = deck.Hand{}
	}
	return HandView{
		Cards:     h,
		Value:     h.Value(),
		Soft:      h.IsSoft(),
		Blackjack: h.IsBlackjack(),
		Bust:      h.IsBust(),
	}
}

func recommendationView(hand int, rec strategy.Recommendation) RecommendationView {
	v := RecommendationView{
		Hand:      hand,
		Action:    rec.Action,
		Label:     display.ActionLabel(rec.Action),
		Deviation: rec.Deviation(),
		Insurance: rec.Insurance,
	}
	if !rec.Action.Terminal() {
		v.Details = rec.Details()
	}
	if rec.Insurance != strategy.NoInsuranceOffer {
		v.InsuranceDetails = rec.InsuranceDetails()
	}
	return v
}
