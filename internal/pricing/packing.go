package pricing

import (
	"fmt"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/selection"
)

// Material identifies one of the five consumable supplies.
type Material int

const (
	SmallBox Material = iota
	MediumBox
	LargeBox
	PaperRoll
	TapeRoll
)

// Materials lists the consumables in supply-table order.
var Materials = []Material{SmallBox, MediumBox, LargeBox, PaperRoll, TapeRoll}

// Supply names looked up before falling back to position.
var materialNames = map[Material]string{
	SmallBox:  "Small Box",
	MediumBox: "Medium Box",
	LargeBox:  "Large Box",
	PaperRoll: "Paper Roll",
	TapeRoll:  "Tape Roll",
}

const (
	laborName     = "Labor"
	laborPosition = 8
)

func (m Material) String() string {
	if n, ok := materialNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Material(%d)", int(m))
}

// MaterialLine is the quantity and money for one consumable.
type MaterialLine struct {
	Material Material
	Supply   string
	Quantity float64
	Cost     float64
	Resale   float64
}

// PackingResult is the full packing estimate.
type PackingResult struct {
	Tier  int
	Scale float64

	Materials  [5]MaterialLine
	LaborHours float64
	LaborCost  float64

	MaterialsCost   float64
	MaterialsResale float64
	PackingTotal    float64
	Profit          float64

	Rooms   []selection.Entry
	Unknown []string
}

// Quantity returns the accumulated quantity for m.
func (r PackingResult) Quantity(m Material) float64 {
	return r.Materials[m].Quantity
}

// CalculatePacking prices the selected rooms. The sliding scale uses the
// same low/high range as moving estimates.
func CalculatePacking(rooms []catalog.Room, supplies []catalog.Supply, rules *formula.Set, tier int, sel selection.Selection) (PackingResult, error) {
	if !formula.ValidTier(tier) {
		return PackingResult{}, &InputValidationError{Field: "packing scale", Reason: fmt.Sprintf("tier %d is outside 1-5", tier)}
	}
	scale, err := rules.ScaleFactor(tier)
	if err != nil {
		return PackingResult{}, err
	}

	res := PackingResult{Tier: tier, Scale: scale}
	known := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		known[room.Name] = true
		n := float64(sel.Rooms[room.Name])
		if n <= 0 {
			continue
		}
		res.Materials[SmallBox].Quantity += room.SmallBoxQuantity * n
		res.Materials[MediumBox].Quantity += room.MediumBoxQuantity * n
		res.Materials[LargeBox].Quantity += room.LargeBoxQuantity * n
		res.Materials[PaperRoll].Quantity += room.PaperRollQuantity * n
		res.Materials[TapeRoll].Quantity += room.TapeRollQuantity * n
		res.LaborHours += room.LaborHours * n
		res.Rooms = append(res.Rooms, selection.Entry{Name: room.Name, Kind: selection.KindPack, Count: int(n)})
	}
	for _, e := range sel.Entries() {
		if e.Kind == selection.KindPack && !known[e.Name] {
			res.Unknown = append(res.Unknown, e.Name)
		}
	}

	for _, m := range Materials {
		s, err := findSupply(supplies, materialNames[m], int(m))
		if err != nil {
			return PackingResult{}, err
		}
		line := &res.Materials[m]
		line.Material = m
		line.Supply = s.Name
		line.Cost = Round2(line.Quantity * s.OrderPrice)
		line.Resale = Round2(line.Quantity * s.ResellPrice * scale)
		res.MaterialsCost += line.Cost
		res.MaterialsResale += line.Resale
	}

	labor, err := findSupply(supplies, laborName, laborPosition)
	if err != nil {
		return PackingResult{}, err
	}
	res.LaborCost = Round2(res.LaborHours * labor.OrderPrice * scale)

	res.MaterialsCost = Round2(res.MaterialsCost)
	res.MaterialsResale = Round2(res.MaterialsResale)
	res.PackingTotal = Round2(res.MaterialsResale + res.LaborCost)
	res.Profit = Round2(res.MaterialsResale - res.MaterialsCost)
	return res, nil
}

func findSupply(supplies []catalog.Supply, name string, pos int) (catalog.Supply, error) {
	for _, s := range supplies {
		if s.Name == name {
			return s, nil
		}
	}
	if pos < len(supplies) {
		return supplies[pos], nil
	}
	return catalog.Supply{}, fmt.Errorf("supply %q (position %d): %w", name, pos, catalog.ErrNotFound)
}
