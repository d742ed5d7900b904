package pricing

import (
	"sort"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/selection"
)

// Hidden value bands and count limits of the threshold rules.
const (
	ShortDistanceBelow = 30
	LongDistanceAbove  = 500

	SecondTruckMinValue = 15
	SecondTruckLimit    = 30
	SmallMaxValue       = 5
	SmallLimit          = 100
	MediumMinValue      = 10
	MediumMaxValue      = 15
	MediumLimit         = 20
	LargeMinValue       = 20
	LargeLimit          = 7
)

// CountedItem is one priced inventory line.
type CountedItem struct {
	Name     string
	Category catalog.Category
	Count    int
}

// Counters are the per-band quantity totals the threshold rules compare.
type Counters struct {
	SecondTruck int
	Small       int
	Medium      int
	Large       int
}

// Breakdown contains every addition that makes up the sum.
type Breakdown struct {
	BaseScore           float64
	Distance            float64
	LongDistance        float64
	FortRiley           float64
	SecondTruck         float64
	Small               float64
	Medium              float64
	Large               float64
	EstimatorAdjustment float64
	Sum                 float64

	SecondTruckApplied bool
	SmallApplied       bool
	MediumApplied      bool
	LargeApplied       bool
}

// EstimateResult is the full moving estimate.
type EstimateResult struct {
	Input     EstimateInput
	Breakdown Breakdown
	Counters  Counters

	AdjustRate float64
	Adjusted   float64
	Scale      float64
	Total      float64
	UnloadOnly float64
	LoadOnly   float64

	Items []CountedItem
	// Unknown lists selected names that are not in the catalog; they are not priced.
	Unknown []string
}

// CalculateEstimate runs the moving rule chain over the catalog items and the
// current selection.
func CalculateEstimate(items []catalog.Item, rules *formula.Set, in EstimateInput, sel selection.Selection) (EstimateResult, error) {
	if err := in.Validate(); err != nil {
		return EstimateResult{}, err
	}
	scale, err := rules.ScaleFactor(in.Tier)
	if err != nil {
		return EstimateResult{}, err
	}

	ordered := make([]catalog.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Category.Order() < ordered[j].Category.Order()
	})

	var (
		b       Breakdown
		c       Counters
		counted []CountedItem
		known   = make(map[selection.ItemKey]bool, len(ordered))
	)
	for _, it := range ordered {
		key := selection.ItemKey{Name: it.Name, Category: it.Category}
		known[key] = true
		qty := sel.Items[key]
		if qty <= 0 {
			continue
		}
		value := it.HiddenValue
		b.BaseScore += float64(qty) * float64(value) * rules.Multiplier(value)
		counted = append(counted, CountedItem{Name: it.Name, Category: it.Category, Count: qty})

		if value >= SecondTruckMinValue {
			c.SecondTruck += qty
		}
		if value <= SmallMaxValue {
			c.Small += qty
		}
		if value >= MediumMinValue && value <= MediumMaxValue {
			c.Medium += qty
		}
		if value >= LargeMinValue {
			c.Large += qty
		}
	}

	var unknown []string
	for key, qty := range sel.Items {
		if qty > 0 && !known[key] {
			unknown = append(unknown, key.Name)
		}
	}
	sort.Strings(unknown)

	if len(counted) == 0 {
		return EstimateResult{}, ErrNoItems
	}

	if in.Distance < ShortDistanceBelow {
		b.Distance = rules.Distance.Flat
	} else {
		b.Distance = rules.Distance.PerMile * float64(in.Distance)
	}
	b.LongDistance = rules.LongDistance.Pick(in.Distance > LongDistanceAbove)
	b.FortRiley = rules.FortRiley.Pick(in.FortRiley)

	b.SecondTruckApplied = c.SecondTruck > SecondTruckLimit
	b.SmallApplied = c.Small > SmallLimit
	b.MediumApplied = c.Medium > MediumLimit
	b.LargeApplied = c.Large > LargeLimit
	b.SecondTruck = rules.SecondTruck.Pick(b.SecondTruckApplied)
	b.Small = rules.Small.Pick(b.SmallApplied)
	b.Medium = rules.Medium.Pick(b.MediumApplied)
	b.Large = rules.Large.Pick(b.LargeApplied)

	b.EstimatorAdjustment = float64(in.Adjustment)
	b.Sum = b.BaseScore + b.Distance + b.LongDistance + b.FortRiley +
		b.SecondTruck + b.Small + b.Medium + b.Large + b.EstimatorAdjustment

	adjusted := b.Sum * rules.Adjust
	total := Round2(adjusted * scale)
	if total == 0 {
		return EstimateResult{}, ErrNoItems
	}

	return EstimateResult{
		Input:      in,
		Breakdown:  b,
		Counters:   c,
		AdjustRate: rules.Adjust,
		Adjusted:   Round2(adjusted),
		Scale:      scale,
		Total:      total,
		UnloadOnly: Round2(total * rules.Unload),
		LoadOnly:   Round2(total * rules.Load),
		Items:      counted,
		Unknown:    unknown,
	}, nil
}
