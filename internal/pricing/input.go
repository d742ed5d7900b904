package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flinthills/movequote/internal/formula"
)

// ErrNoItems is returned when an estimate has nothing to price.
var ErrNoItems = errors.New("no item entered")

// NoItemsMessage is the user-facing text for ErrNoItems.
const NoItemsMessage = "No item entered!"

// InputValidationError reports a user input that cannot be used. It only
// aborts the current calculation.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// EstimateInput holds the per-quote parameters entered next to the inventory.
type EstimateInput struct {
	Distance   int
	Adjustment int
	FortRiley  bool
	Tier       int
}

// FortRileyText is the Yes/No form used in exports.
func (in EstimateInput) FortRileyText() string {
	if in.FortRiley {
		return "Yes"
	}
	return "No"
}

// Validate checks ranges on an already parsed input.
func (in EstimateInput) Validate() error {
	if in.Distance < 0 {
		return &InputValidationError{Field: "round trip distance", Reason: "must not be negative"}
	}
	if !formula.ValidTier(in.Tier) {
		return &InputValidationError{Field: "sliding scale", Reason: fmt.Sprintf("tier %d is outside 1-5", in.Tier)}
	}
	return nil
}

// ParseEstimateInput converts the raw text fields into an EstimateInput.
func ParseEstimateInput(distance, adjustment string, fortRiley bool, tier int) (EstimateInput, error) {
	d, err := parseInt("round trip distance", distance)
	if err != nil {
		return EstimateInput{}, err
	}
	a, err := parseInt("estimator adjustment", adjustment)
	if err != nil {
		return EstimateInput{}, err
	}
	in := EstimateInput{Distance: d, Adjustment: a, FortRiley: fortRiley, Tier: tier}
	if err := in.Validate(); err != nil {
		return EstimateInput{}, err
	}
	return in, nil
}

func parseInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &InputValidationError{Field: field, Reason: "is blank"}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InputValidationError{Field: field, Reason: "must be a whole number"}
	}
	return v, nil
}
