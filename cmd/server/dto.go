package main

import (
	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/export"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/pricing"
)

type itemJSON struct {
	Name        string `json:"name"`
	HiddenValue int    `json:"hidden_value"`
	Category    string `json:"category"`
}

type formulaJSON struct {
	Name    string `json:"name"`
	Numbers string `json:"numbers"`
}

type supplyJSON struct {
	Name        string  `json:"name"`
	Supplier    string  `json:"supplier"`
	OrderPrice  float64 `json:"order_price"`
	ResellPrice float64 `json:"resell_price"`
}

func (s supplyJSON) toSupply() catalog.Supply {
	return catalog.Supply{Name: s.Name, Supplier: s.Supplier, OrderPrice: s.OrderPrice, ResellPrice: s.ResellPrice}
}

type roomJSON struct {
	Name              string  `json:"name"`
	SmallBoxQuantity  float64 `json:"small_box_quantity"`
	MediumBoxQuantity float64 `json:"medium_box_quantity"`
	LargeBoxQuantity  float64 `json:"large_box_quantity"`
	PaperRollQuantity float64 `json:"paper_roll_quantity"`
	TapeRollQuantity  float64 `json:"tape_roll_quantity"`
	LaborHours        float64 `json:"labor_hours"`
}

func (r roomJSON) toRoom() catalog.Room {
	return catalog.Room{
		Name:              r.Name,
		SmallBoxQuantity:  r.SmallBoxQuantity,
		MediumBoxQuantity: r.MediumBoxQuantity,
		LargeBoxQuantity:  r.LargeBoxQuantity,
		PaperRollQuantity: r.PaperRollQuantity,
		TapeRollQuantity:  r.TapeRollQuantity,
		LaborHours:        r.LaborHours,
	}
}

type catalogResponse struct {
	Categories []string      `json:"categories"`
	Items      []itemJSON    `json:"items"`
	Formulas   []formulaJSON `json:"formulas"`
	Supplies   []supplyJSON  `json:"supplies"`
	Rooms      []roomJSON    `json:"rooms"`
}

func newCatalogResponse(snap catalog.Snapshot) catalogResponse {
	resp := catalogResponse{
		Categories: make([]string, 0, len(catalog.Categories)),
		Items:      make([]itemJSON, 0, len(snap.Items)),
		Formulas:   make([]formulaJSON, 0, len(snap.Formulas)),
		Supplies:   make([]supplyJSON, 0, len(snap.Supplies)),
		Rooms:      make([]roomJSON, 0, len(snap.Rooms)),
	}
	for _, c := range catalog.Categories {
		resp.Categories = append(resp.Categories, string(c))
	}
	for _, it := range snap.Items {
		resp.Items = append(resp.Items, itemJSON{Name: it.Name, HiddenValue: it.HiddenValue, Category: string(it.Category)})
	}
	for _, f := range snap.Formulas {
		resp.Formulas = append(resp.Formulas, formulaJSON{Name: f.Name, Numbers: f.Numbers})
	}
	for _, s := range snap.Supplies {
		resp.Supplies = append(resp.Supplies, supplyJSON{Name: s.Name, Supplier: s.Supplier, OrderPrice: s.OrderPrice, ResellPrice: s.ResellPrice})
	}
	for _, r := range snap.Rooms {
		resp.Rooms = append(resp.Rooms, roomJSON{
			Name:              r.Name,
			SmallBoxQuantity:  r.SmallBoxQuantity,
			MediumBoxQuantity: r.MediumBoxQuantity,
			LargeBoxQuantity:  r.LargeBoxQuantity,
			PaperRollQuantity: r.PaperRollQuantity,
			TapeRollQuantity:  r.TapeRollQuantity,
			LaborHours:        r.LaborHours,
		})
	}
	return resp
}

type breakdownJSON struct {
	BaseScore           float64 `json:"base_score"`
	Distance            float64 `json:"distance"`
	LongDistance        float64 `json:"long_distance"`
	FortRiley           float64 `json:"fort_riley"`
	SecondTruck         float64 `json:"second_truck"`
	Small               float64 `json:"small"`
	Medium              float64 `json:"medium"`
	Large               float64 `json:"large"`
	EstimatorAdjustment float64 `json:"estimator_adjustment"`
	Sum                 float64 `json:"sum"`
}

type estimateResponse struct {
	Breakdown  breakdownJSON `json:"breakdown"`
	AdjustRate float64       `json:"adjust_rate"`
	Adjusted   float64       `json:"adjusted"`
	Scale      float64       `json:"scale"`
	TierLabel  string        `json:"tier_label"`
	Total      float64       `json:"total"`
	UnloadOnly float64       `json:"unload_only"`
	LoadOnly   float64       `json:"load_only"`
	Display    string        `json:"display"`
	Details    []detailJSON  `json:"details"`
	Unknown    []string      `json:"unknown,omitempty"`
}

type detailJSON struct {
	Detail string `json:"detail"`
	Output string `json:"output"`
}

func newEstimateResponse(est pricing.EstimateResult) estimateResponse {
	rows := export.DetailRows(export.Quote{Estimate: est})
	details := make([]detailJSON, 0, len(rows))
	for _, r := range rows {
		details = append(details, detailJSON{Detail: r.Detail, Output: r.Output})
	}

	b := est.Breakdown
	return estimateResponse{
		Breakdown: breakdownJSON{
			BaseScore:           pricing.Round2(b.BaseScore),
			Distance:            pricing.Round2(b.Distance),
			LongDistance:        b.LongDistance,
			FortRiley:           b.FortRiley,
			SecondTruck:         b.SecondTruck,
			Small:               b.Small,
			Medium:              b.Medium,
			Large:               b.Large,
			EstimatorAdjustment: b.EstimatorAdjustment,
			Sum:                 pricing.Round2(b.Sum),
		},
		AdjustRate: est.AdjustRate,
		Adjusted:   est.Adjusted,
		Scale:      est.Scale,
		TierLabel:  formula.TierLabel(est.Input.Tier),
		Total:      est.Total,
		UnloadOnly: est.UnloadOnly,
		LoadOnly:   est.LoadOnly,
		Display:    "$" + pricing.FormatFixed(est.Total),
		Details:    details,
		Unknown:    est.Unknown,
	}
}

type materialJSON struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
	Resale   float64 `json:"resale"`
}

type packingResponse struct {
	Tier            int            `json:"tier"`
	TierLabel       string         `json:"tier_label"`
	Scale           float64        `json:"scale"`
	Materials       []materialJSON `json:"materials"`
	LaborHours      float64        `json:"labor_hours"`
	LaborCost       float64        `json:"labor_cost"`
	MaterialsCost   float64        `json:"materials_cost"`
	MaterialsResale float64        `json:"materials_resale"`
	PackingTotal    float64        `json:"packing_total"`
	Profit          float64        `json:"profit"`
	Unknown         []string       `json:"unknown,omitempty"`
}

func newPackingResponse(res pricing.PackingResult) packingResponse {
	resp := packingResponse{
		Tier:            res.Tier,
		TierLabel:       formula.TierLabel(res.Tier),
		Scale:           res.Scale,
		Materials:       make([]materialJSON, 0, len(res.Materials)),
		LaborHours:      res.LaborHours,
		LaborCost:       res.LaborCost,
		MaterialsCost:   res.MaterialsCost,
		MaterialsResale: res.MaterialsResale,
		PackingTotal:    res.PackingTotal,
		Profit:          res.Profit,
		Unknown:         res.Unknown,
	}
	for _, m := range pricing.Materials {
		line := res.Materials[m]
		resp.Materials = append(resp.Materials, materialJSON{
			Name: m.String(), Quantity: line.Quantity, Cost: line.Cost, Resale: line.Resale,
		})
	}
	return resp
}
