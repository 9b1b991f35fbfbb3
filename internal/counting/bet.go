package counting

// Tier is a qualitative band of the true count used for bet sizing.
type Tier int

const (
	TierNegative Tier = iota
	TierLow
	TierSlightlyPositive
	TierPositive
	TierGood
	TierVeryGood
	TierExcellent
)

// Label describes the tier for display.
func (t Tier) Label() string {
	switch t {
	case TierNegative:
		return "Negative count - bet minimum"
	case TierLow:
		return "Low count - bet minimum"
	case TierSlightlyPositive:
		return "Slightly positive - bet 2x"
	case TierPositive:
		return "Positive count - bet 4x"
	case TierGood:
		return "Good count - bet 6x"
	case TierVeryGood:
		return "Very good count - bet 8x"
	case TierExcellent:
		return "Excellent count - bet 10x"
	default:
		return "Unknown"
	}
}

// String returns a short tier name.
func (t Tier) String() string {
	switch t {
	case TierNegative:
		return "negative"
	case TierLow:
		return "low"
	case TierSlightlyPositive:
		return "slightly-positive"
	case TierPositive:
		return "positive"
	case TierGood:
		return "good"
	case TierVeryGood:
		return "very-good"
	case TierExcellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// BaseBet is the betting unit multiplied by the tier multiplier.
const BaseBet = 1

// Bet is a suggested wager in betting units.
type Bet struct {
	Multiplier int
	Tier       Tier
}

// Units returns the suggested bet size.
func (b Bet) Units() int {
	return BaseBet * b.Multiplier
}

// SuggestedBet maps a true count to a bet. Band upper bounds are inclusive.
func SuggestedBet(trueCount float64) Bet {
	switch {
	case trueCount <= 0:
		return Bet{Multiplier: 1, Tier: TierNegative}
	case trueCount <= 1:
		return Bet{Multiplier: 1, Tier: TierLow}
	case trueCount <= 2:
		return Bet{Multiplier: 2, Tier: TierSlightlyPositive}
	case trueCount <= 3:
		return Bet{Multiplier: 4, Tier: TierPositive}
	case trueCount <= 4:
		return Bet{Multiplier: 6, Tier: TierGood}
	case trueCount <= 5:
		return Bet{Multiplier: 8, Tier: TierVeryGood}
	default:
		return Bet{Multiplier: 10, Tier: TierExcellent}
	}
}
