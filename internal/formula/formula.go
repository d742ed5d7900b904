// Package formula parses the stored pricing rules into a typed, validated set.
//
// Each formula is persisted as one dash-joined string of numbers. The number
// of values and their meaning depend on the formula: scalar factors carry one
// value, threshold rules carry a (met, otherwise) pair and the hidden value
// multiplier table carries six (value, multiplier) pairs.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Name identifies one of the known formulas.
type Name string

const (
	DistanceAddition      Name = "Distance Addition"
	LongDistanceAddition  Name = "Long Distance Addition"
	FortRileyAdjustment   Name = "Fort Riley Adjustment"
	SecondTruck           Name = "Second Truck"
	SmallAddition         Name = "Small Addition"
	MedAddition           Name = "Med Addition"
	LargeAddition         Name = "Large Addition"
	AdjustMultiplier      Name = "Adjust Multiplier"
	UnloadOnly            Name = "Unload Only"
	LoadOnly              Name = "Load Only"
	LowRange              Name = "Low Range"
	HighRange             Name = "High Range"
	HiddenValueMultiplier Name = "Hidden Value Multiplier"
)

// Names lists the formulas in their stored order.
var Names = []Name{
	DistanceAddition,
	LongDistanceAddition,
	FortRileyAdjustment,
	SecondTruck,
	SmallAddition,
	MedAddition,
	LargeAddition,
	AdjustMultiplier,
	UnloadOnly,
	LoadOnly,
	LowRange,
	HighRange,
	HiddenValueMultiplier,
}

// MultiplierPairs is the number of (value, multiplier) pairs in the multiplier table.
const MultiplierPairs = 6

const separator = "-"

// Arity returns the number of parameters formula n takes, or 0 when n is unknown.
func Arity(n Name) int {
	switch n {
	case DistanceAddition, LongDistanceAddition, FortRileyAdjustment,
		SecondTruck, SmallAddition, MedAddition, LargeAddition:
		return 2
	case AdjustMultiplier, UnloadOnly, LoadOnly, LowRange, HighRange:
		return 1
	case HiddenValueMultiplier:
		return MultiplierPairs * 2
	}
	return 0
}

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("formula configuration error")

// ConfigurationError reports a missing or malformed formula. It is not
// transient; callers must refuse to compute rather than substitute defaults.
type ConfigurationError struct {
	Formula Name
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("formula %q: %s", e.Formula, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Decode parses the stored dash-joined text of formula n.
func Decode(n Name, numbers string) ([]float64, error) {
	want := Arity(n)
	if want == 0 {
		return nil, &ConfigurationError{Formula: n, Reason: "unknown formula"}
	}
	tokens := strings.Split(strings.TrimSpace(numbers), separator)
	if len(tokens) != want {
		return nil, &ConfigurationError{
			Formula: n,
			Reason:  fmt.Sprintf("expected %d values, got %d in %q", want, len(tokens), numbers),
		}
	}
	params := make([]float64, 0, want)
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return nil, &ConfigurationError{
				Formula: n,
				Reason:  fmt.Sprintf("value %q is not a number", tok),
			}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ConfigurationError{
				Formula: n,
				Reason:  fmt.Sprintf("value %q is not a finite number", tok),
			}
		}
		params = append(params, v)
	}
	return params, nil
}

// Encode formats params as the stored dash-joined text after checking that
// they fit formula n. Negative values cannot be stored because the separator
// is a dash.
func Encode(n Name, params []float64) (string, error) {
	want := Arity(n)
	if want == 0 {
		return "", &ConfigurationError{Formula: n, Reason: "unknown formula"}
	}
	if len(params) != want {
		return "", &ConfigurationError{
			Formula: n,
			Reason:  fmt.Sprintf("expected %d values, got %d", want, len(params)),
		}
	}
	tokens := make([]string, len(params))
	for i, v := range params {
		if v < 0 {
			return "", &ConfigurationError{Formula: n, Reason: "negative values cannot be stored"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", &ConfigurationError{Formula: n, Reason: "values must be finite"}
		}
		tokens[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(tokens, separator), nil
}
