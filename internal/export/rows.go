// Package export renders a computed quote as the DETAILS/OUTPUT sheet used for
// saving, reloading and auditing estimates, in CSV, XLSX and PDF form.
package export

import (
	"fmt"
	"strconv"

	"github.com/flinthills/movequote/internal/pricing"
)

// Section headers and labels shared by the writers and the CSV reader.
const (
	headerDetails = "DETAILS"
	headerOutput  = "OUTPUT"
	headerItems   = "ITEM NAMES"
	headerRooms   = "ROOM NAMES"
	headerNumber  = "NUMBER"
	headerNote    = "NOTE"

	keyDistance   = "RTD="
	keyFortRiley  = "FRA="
	keyAdjustment = "EA="
	keyScale      = "SCALE="
	keyPackScale  = "PACK_SCALE="
)

// Quote is everything one export contains. Packing is optional. PackTier is
// written even when no room is packed so the slider survives a round trip;
// a computed Packing carries its own tier.
type Quote struct {
	Estimate pricing.EstimateResult
	Packing  *pricing.PackingResult
	PackTier int
	Note     string
}

// Row is one DETAILS/OUTPUT line.
type Row struct {
	Detail string
	Output string
}

// DetailRows returns the breakdown lines of q in export order.
func DetailRows(q Quote) []Row {
	e := q.Estimate
	b := e.Breakdown
	rows := []Row{
		{"Base Score:", dollars(b.BaseScore)},
		{fmt.Sprintf("Distance Addition (%s%d):", keyDistance, e.Input.Distance), dollars(b.Distance)},
		{"Long Distance Addition:", dollars(b.LongDistance)},
		{fmt.Sprintf("Fort Riley Addition (%s%s):", keyFortRiley, e.Input.FortRileyText()), dollars(b.FortRiley)},
		{"Second Truck:", flagged(b.SecondTruckApplied, b.SecondTruck)},
		{fmt.Sprintf("More Than %d Small Items:", pricing.SmallLimit), flagged(b.SmallApplied, b.Small)},
		{fmt.Sprintf("More Than %d Medium Items:", pricing.MediumLimit), flagged(b.MediumApplied, b.Medium)},
		{fmt.Sprintf("More Than %d Large Items:", pricing.LargeLimit), flagged(b.LargeApplied, b.Large)},
		{fmt.Sprintf("Estimator Adjustment (%s%d):", keyAdjustment, e.Input.Adjustment), dollars(b.EstimatorAdjustment)},
		{"Sum of Above:", dollars(b.Sum)},
		{fmt.Sprintf("After Adjust Rate (%s):", factor(e.AdjustRate)), "$" + pricing.FormatFixed(e.Adjusted)},
		{fmt.Sprintf("After Sliding Scale Rate (%s):", factor(e.Scale)), "$" + pricing.FormatFixed(e.Total)},
		{fmt.Sprintf("Total Estimate (%s%d):", keyScale, e.Input.Tier), "$" + pricing.FormatFixed(e.Total)},
		{"Unload Only Estimate:", "$" + pricing.FormatFixed(e.UnloadOnly)},
		{"Load Only Estimate:", "$" + pricing.FormatFixed(e.LoadOnly)},
	}
	tier, packing := q.PackTier, 0.0
	if p := q.Packing; p != nil {
		tier, packing = p.Tier, p.PackingTotal
	}
	if tier != 0 {
		rows = append(rows,
			Row{fmt.Sprintf("Packing Estimate (%s%d):", keyPackScale, tier), "$" + pricing.FormatFixed(packing)},
			Row{"Combined Total:", "$" + pricing.FormatFixed(pricing.Round2(e.Total+packing))},
		)
	}
	return rows
}

// Records returns the whole sheet: header, details, selections and note.
// Blank separator lines are empty records.
func Records(q Quote) [][]string {
	records := [][]string{{headerDetails, headerOutput}}
	for _, r := range DetailRows(q) {
		records = append(records, []string{r.Detail, r.Output})
	}

	records = append(records, []string{}, []string{headerItems, headerNumber})
	for _, it := range q.Estimate.Items {
		records = append(records, []string{it.Name, strconv.Itoa(it.Count)})
	}
	if q.Packing != nil && len(q.Packing.Rooms) > 0 {
		records = append(records, []string{headerRooms, headerNumber})
		for _, r := range q.Packing.Rooms {
			records = append(records, []string{r.Name, strconv.Itoa(r.Count)})
		}
	}

	records = append(records, []string{}, []string{headerNote})
	if q.Note != "" {
		records = append(records, []string{q.Note})
	} else {
		records = append(records, []string{})
	}
	return records
}

func dollars(v float64) string {
	return "$" + pricing.FormatAmount(v)
}

func flagged(applied bool, v float64) string {
	if applied {
		return fmt.Sprintf("YES (%s)", dollars(v))
	}
	return fmt.Sprintf("NO (%s)", dollars(v))
}

func factor(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
