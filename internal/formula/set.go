package formula

import (
	"context"
	"fmt"

	"github.com/flinthills/movequote/internal/catalog"
)

// Threshold is a two-branch rule: Met applies when the rule's condition holds,
// Otherwise applies when it does not.
type Threshold struct {
	Met       float64
	Otherwise float64
}

// Pick returns Met when cond holds and Otherwise when it does not.
func (t Threshold) Pick(cond bool) float64 {
	if cond {
		return t.Met
	}
	return t.Otherwise
}

// DistanceRule prices the round trip: a flat fee for short trips, a per-mile
// rate otherwise.
type DistanceRule struct {
	Flat    float64
	PerMile float64
}

// MultiplierPair maps an exact hidden value to its multiplier.
type MultiplierPair struct {
	Value      float64
	Multiplier float64
}

// Set is the validated, typed view of all formulas.
type Set struct {
	Distance     DistanceRule
	LongDistance Threshold
	FortRiley    Threshold
	SecondTruck  Threshold
	Small        Threshold
	Medium       Threshold
	Large        Threshold
	Adjust       float64
	Unload       float64
	Load         float64
	Low          float64
	High         float64
	Multipliers  [MultiplierPairs]MultiplierPair
}

// Multiplier returns the multiplier for hiddenValue: the first pair in table
// order whose value matches exactly, or 1 when none does.
func (s *Set) Multiplier(hiddenValue int) float64 {
	for _, p := range s.Multipliers {
		if p.Value == float64(hiddenValue) {
			return p.Multiplier
		}
	}
	return 1
}

// Parse validates rows and builds a Set. Every known formula must appear
// exactly once; unknown rows are ignored.
func Parse(rows []catalog.Formula) (*Set, error) {
	params := make(map[Name][]float64, len(Names))
	for _, row := range rows {
		n := Name(row.Name)
		if Arity(n) == 0 {
			continue
		}
		if _, dup := params[n]; dup {
			return nil, &ConfigurationError{Formula: n, Reason: "defined more than once"}
		}
		values, err := Decode(n, row.Numbers)
		if err != nil {
			return nil, err
		}
		params[n] = values
	}
	for _, n := range Names {
		if _, ok := params[n]; !ok {
			return nil, &ConfigurationError{Formula: n, Reason: "missing"}
		}
	}

	pair := func(n Name) Threshold {
		return Threshold{Met: params[n][0], Otherwise: params[n][1]}
	}
	s := &Set{
		Distance:     DistanceRule{Flat: params[DistanceAddition][0], PerMile: params[DistanceAddition][1]},
		LongDistance: pair(LongDistanceAddition),
		FortRiley:    pair(FortRileyAdjustment),
		SecondTruck:  pair(SecondTruck),
		Small:        pair(SmallAddition),
		Medium:       pair(MedAddition),
		Large:        pair(LargeAddition),
		Adjust:       params[AdjustMultiplier][0],
		Unload:       params[UnloadOnly][0],
		Load:         params[LoadOnly][0],
		Low:          params[LowRange][0],
		High:         params[HighRange][0],
	}
	table := params[HiddenValueMultiplier]
	for i := range s.Multipliers {
		s.Multipliers[i] = MultiplierPair{Value: table[2*i], Multiplier: table[2*i+1]}
	}
	return s, nil
}

// Load reads the formulas from r and parses them.
func Load(ctx context.Context, r catalog.Reader) (*Set, error) {
	rows, err := r.ListFormulas(ctx)
	if err != nil {
		return nil, fmt.Errorf("load formulas: %w", err)
	}
	return Parse(rows)
}
