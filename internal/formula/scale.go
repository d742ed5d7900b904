package formula

import "fmt"

// Sliding scale tiers.
const (
	TierLow     = 1
	TierLowMid  = 2
	TierMid     = 3
	TierHighMid = 4
	TierHigh    = 5
)

// ValidTier reports whether tier is on the 1-5 slider.
func ValidTier(tier int) bool {
	return tier >= TierLow && tier <= TierHigh
}

// ScaleFactor maps a slider tier to its multiplicative factor. The middle tier
// is always exactly 1; the tiers beside it sit halfway between 1 and the
// configured bound.
func (s *Set) ScaleFactor(tier int) (float64, error) {
	switch tier {
	case TierLow:
		return s.Low, nil
	case TierLowMid:
		return (s.Low + 1) / 2, nil
	case TierMid:
		return 1, nil
	case TierHighMid:
		return (s.High + 1) / 2, nil
	case TierHigh:
		return s.High, nil
	}
	return 0, fmt.Errorf("scale tier %d is outside 1-5", tier)
}

// TierLabel is the slider caption for tier.
func TierLabel(tier int) string {
	switch tier {
	case TierLow:
		return "Low Range Value"
	case TierLowMid:
		return "Low-Medium Range Value"
	case TierMid:
		return "Estimate Amount"
	case TierHighMid:
		return "Medium-High Range Value"
	default:
		return "High Range Value"
	}
}
