package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/pricing"
	"github.com/flinthills/movequote/internal/selection"
)

var (
	testItems = []catalog.Item{
		{ID: 1, Name: "Chair", HiddenValue: 7, Category: catalog.CategoryKitchen},
		{ID: 2, Name: "Dresser", HiddenValue: 20, Category: catalog.CategoryBedroom},
		{ID: 3, Name: "Small Box", HiddenValue: 1, Category: catalog.CategoryBoxes},
	}
	testRooms = []catalog.Room{
		{ID: 1, Name: "Kitchen", SmallBoxQuantity: 2, MediumBoxQuantity: 1, LaborHours: 1},
	}
	testSupplies = []catalog.Supply{
		{Name: "Small Box", OrderPrice: 1, ResellPrice: 2},
		{Name: "Medium Box", OrderPrice: 2, ResellPrice: 4},
		{Name: "Large Box", OrderPrice: 3, ResellPrice: 6},
		{Name: "Paper Roll", OrderPrice: 10, ResellPrice: 20},
		{Name: "Tape Roll", OrderPrice: 1, ResellPrice: 3},
		{Name: "Labor", OrderPrice: 30, ResellPrice: 30},
	}
)

func testRules(t *testing.T) *formula.Set {
	t.Helper()
	set, err := formula.Parse([]catalog.Formula{
		{Name: "Distance Addition", Numbers: "150-5"},
		{Name: "Long Distance Addition", Numbers: "2000-0"},
		{Name: "Fort Riley Adjustment", Numbers: "100-0"},
		{Name: "Second Truck", Numbers: "500-0"},
		{Name: "Small Addition", Numbers: "200-0"},
		{Name: "Med Addition", Numbers: "300-0"},
		{Name: "Large Addition", Numbers: "400-0"},
		{Name: "Adjust Multiplier", Numbers: "1.1"},
		{Name: "Unload Only", Numbers: "0.4"},
		{Name: "Load Only", Numbers: "0.6"},
		{Name: "Low Range", Numbers: "0.8"},
		{Name: "High Range", Numbers: "1.2"},
		{Name: "Hidden Value Multiplier", Numbers: "1-1-5-2-10-3-15-4-20-5-25-6"},
	})
	require.NoError(t, err)
	return set
}

func testQuote(t *testing.T, withPacking bool) (Quote, selection.Selection) {
	t.Helper()
	sel := selection.New()
	sel.SetItem("Chair", catalog.CategoryKitchen, 2)
	sel.SetItem("Dresser", catalog.CategoryBedroom, 8)
	rules := testRules(t)

	in := pricing.EstimateInput{Distance: 42, Adjustment: -15, FortRiley: true, Tier: formula.TierHighMid}
	est, err := pricing.CalculateEstimate(testItems, rules, in, sel)
	require.NoError(t, err)

	q := Quote{Estimate: est, Note: "Piano on second floor,\nno elevator"}
	if withPacking {
		sel.SetRoom("Kitchen", 3)
		pack, err := pricing.CalculatePacking(testRooms, testSupplies, rules, formula.TierLow, sel)
		require.NoError(t, err)
		q.Packing = &pack
	}
	return q, sel
}

func TestDetailRows_Text(t *testing.T) {
	q, _ := testQuote(t, false)
	rows := DetailRows(q)
	require.Len(t, rows, 15)

	assert.Equal(t, Row{"Base Score:", "$814"}, rows[0])
	assert.Equal(t, Row{"Distance Addition (RTD=42):", "$210"}, rows[1])
	assert.Equal(t, Row{"Fort Riley Addition (FRA=Yes):", "$100"}, rows[3])
	assert.Equal(t, Row{"Second Truck:", "NO ($0)"}, rows[4])
	assert.Equal(t, Row{"More Than 7 Large Items:", "YES ($400)"}, rows[7])
	assert.Equal(t, Row{"Estimator Adjustment (EA=-15):", "$-15"}, rows[8])
	assert.Equal(t, Row{"Sum of Above:", "$1509"}, rows[9])
	assert.Equal(t, Row{"After Adjust Rate (1.1):", "$1659.90"}, rows[10])
	assert.Equal(t, "Total Estimate (SCALE=4):", rows[12].Detail)
}

func TestCSV_RoundTrip(t *testing.T) {
	for _, withPacking := range []bool{false, true} {
		q, sel := testQuote(t, withPacking)

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, q))
		assert.True(t, strings.HasPrefix(buf.String(), "DETAILS,OUTPUT\r\n"))

		imp, err := ReadCSV(&buf)
		require.NoError(t, err)

		assert.Equal(t, q.Estimate.Input, imp.Input)
		assert.Equal(t, q.Note, imp.Note)
		if withPacking {
			assert.Equal(t, formula.TierLow, imp.PackTier)
		} else {
			assert.Equal(t, formula.TierMid, imp.PackTier)
		}

		got, skipped := Resolve(imp, testItems, testRooms)
		assert.Empty(t, skipped)
		assert.Equal(t, sel.Entries(), got.Entries())
	}
}

func TestCSV_PackTierWithoutRooms(t *testing.T) {
	q, sel := testQuote(t, false)
	q.PackTier = formula.TierHigh

	rows := DetailRows(q)
	require.Len(t, rows, 17)
	assert.Equal(t, Row{"Packing Estimate (PACK_SCALE=5):", "$0.00"}, rows[15])
	assert.Equal(t, rows[12].Output, rows[16].Output)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, q))
	imp, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, formula.TierHigh, imp.PackTier)
	assert.Empty(t, imp.Rooms)
	got, skipped := Resolve(imp, testItems, testRooms)
	assert.Empty(t, skipped)
	assert.Equal(t, sel.Entries(), got.Entries())
}

func TestResolve_SkipsUnknownNames(t *testing.T) {
	q, _ := testQuote(t, true)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, q))
	imp, err := ReadCSV(&buf)
	require.NoError(t, err)

	sel, skipped := Resolve(imp, testItems[:1], nil)
	assert.Equal(t, []string{"Dresser", "Kitchen"}, skipped)
	assert.Equal(t, 2, sel.Item("Chair", catalog.CategoryKitchen))
	assert.Zero(t, sel.Room("Kitchen"))
}

func TestReadCSV_FormatErrors(t *testing.T) {
	valid := func() string {
		q, _ := testQuote(t, false)
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, q))
		return buf.String()
	}()

	cases := map[string]string{
		"wrong headers":      strings.Replace(valid, "DETAILS,OUTPUT", "NAME,VALUE", 1),
		"missing distance":   strings.Replace(valid, "(RTD=42)", "", 1),
		"bad flag":           strings.Replace(valid, "FRA=Yes", "FRA=Maybe", 1),
		"bad quantity":       strings.Replace(valid, "Chair,2", "Chair,two", 1),
		"no note header":     strings.Replace(valid, "NOTE\r\n", "", 1),
		"scale out of range": strings.Replace(valid, "SCALE=4", "SCALE=9", 1),
		"empty":              "",
	}
	for name, body := range cases {
		_, err := ReadCSV(strings.NewReader(body))
		var formatErr *ImportFormatError
		assert.True(t, errors.As(err, &formatErr), "%s: %v", name, err)
	}
}

func TestReadCSV_BlankNote(t *testing.T) {
	q, _ := testQuote(t, false)
	q.Note = ""
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, q))

	imp, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, imp.Note)
}

func TestWriteXLSX(t *testing.T) {
	q, _ := testQuote(t, true)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, q))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	a1, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "DETAILS", a1)
	b2, err := f.GetCellValue(SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "$814", b2)

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	var names []string
	for _, r := range rows {
		if len(r) > 0 {
			names = append(names, r[0])
		}
	}
	assert.Contains(t, names, "ROOM NAMES")
	assert.Contains(t, names, "Kitchen")
}

func TestWritePDF(t *testing.T) {
	q, _ := testQuote(t, true)
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, q, "Moving Estimate"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
