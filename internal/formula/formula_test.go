package formula

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinthills/movequote/internal/catalog"
)

func validRows() []catalog.Formula {
	return []catalog.Formula{
		{Name: "Distance Addition", Numbers: "150-5"},
		{Name: "Long Distance Addition", Numbers: "1000-0"},
		{Name: "Fort Riley Adjustment", Numbers: "75-0"},
		{Name: "Second Truck", Numbers: "2000-0"},
		{Name: "Small Addition", Numbers: "200-0"},
		{Name: "Med Addition", Numbers: "300-0"},
		{Name: "Large Addition", Numbers: "400-0"},
		{Name: "Adjust Multiplier", Numbers: "1.1"},
		{Name: "Unload Only", Numbers: "0.4"},
		{Name: "Load Only", Numbers: "0.6"},
		{Name: "Low Range", Numbers: "0.8"},
		{Name: "High Range", Numbers: "1.2"},
		{Name: "Hidden Value Multiplier", Numbers: "1-1-5-2-10-3-15-4-20-5-25-6"},
	}
}

func replace(rows []catalog.Formula, name Name, numbers string) []catalog.Formula {
	out := make([]catalog.Formula, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].Name == string(name) {
			out[i].Numbers = numbers
		}
	}
	return out
}

func TestParse_BuildsTypedSet(t *testing.T) {
	set, err := Parse(validRows())
	require.NoError(t, err)

	assert.Equal(t, DistanceRule{Flat: 150, PerMile: 5}, set.Distance)
	assert.Equal(t, Threshold{Met: 2000, Otherwise: 0}, set.SecondTruck)
	assert.InDelta(t, 1.1, set.Adjust, 1e-9)
	assert.InDelta(t, 0.8, set.Low, 1e-9)
	assert.InDelta(t, 1.2, set.High, 1e-9)
	assert.Equal(t, MultiplierPair{Value: 25, Multiplier: 6}, set.Multipliers[5])
}

func TestParse_MissingFormula(t *testing.T) {
	rows := validRows()[:12]

	_, err := Parse(rows)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, HiddenValueMultiplier, cfgErr.Formula)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParse_WrongArity(t *testing.T) {
	_, err := Parse(replace(validRows(), SmallAddition, "200"))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, SmallAddition, cfgErr.Formula)
}

func TestParse_NonNumeric(t *testing.T) {
	for _, text := range []string{"abc", "NaN", "Inf", "infinity", "+Inf"} {
		_, err := Parse(replace(validRows(), LowRange, text))
		require.ErrorIs(t, err, ErrConfiguration, "numbers %q", text)

		_, err = Decode(AdjustMultiplier, text)
		require.ErrorIs(t, err, ErrConfiguration, "numbers %q", text)
	}
}

func TestParse_NegativeLooksLikeExtraToken(t *testing.T) {
	_, err := Parse(replace(validRows(), AdjustMultiplier, "-1"))
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestParse_Duplicate(t *testing.T) {
	rows := append(validRows(), catalog.Formula{Name: "Load Only", Numbers: "0.5"})

	_, err := Parse(rows)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestMultiplier_ExactMatchFirstWins(t *testing.T) {
	set, err := Parse(replace(validRows(), HiddenValueMultiplier, "5-2-5-9-10-3-15-4-20-5-25-6"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, set.Multiplier(5))
	assert.Equal(t, 3.0, set.Multiplier(10))
	assert.Equal(t, 1.0, set.Multiplier(7), "unlisted values fall back to 1")
}

func TestEncode(t *testing.T) {
	got, err := Encode(DistanceAddition, []float64{150, 2.5})
	require.NoError(t, err)
	assert.Equal(t, "150-2.5", got)

	_, err = Encode(DistanceAddition, []float64{150})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Encode(LowRange, []float64{-0.5})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Encode(LowRange, []float64{math.Inf(1)})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Encode(Name("Bogus"), []float64{1})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestScaleFactor(t *testing.T) {
	set := &Set{Low: 0.8, High: 1.4}

	cases := map[int]float64{1: 0.8, 2: 0.9, 3: 1, 4: 1.2, 5: 1.4}
	for tier, want := range cases {
		got, err := set.ScaleFactor(tier)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, "tier %d", tier)
	}

	_, err := set.ScaleFactor(0)
	assert.Error(t, err)
	_, err = set.ScaleFactor(6)
	assert.Error(t, err)
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "Estimate Amount", TierLabel(TierMid))
	assert.Equal(t, "Low Range Value", TierLabel(TierLow))
	assert.Equal(t, "High Range Value", TierLabel(TierHigh))
}

type formulaReader struct {
	catalog.Reader
	rows []catalog.Formula
	err  error
}

func (r formulaReader) ListFormulas(context.Context) ([]catalog.Formula, error) {
	return r.rows, r.err
}

func TestLoad(t *testing.T) {
	set, err := Load(context.Background(), formulaReader{rows: validRows()})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, set.Load, 1e-9)

	boom := errors.New("boom")
	_, err = Load(context.Background(), formulaReader{err: boom})
	assert.ErrorIs(t, err, boom)
}
