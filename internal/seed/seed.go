// Package seed loads catalog fixtures into the authoritative store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
)

// Fixture file names inside the seed directory.
const (
	ItemsFile    = "items.json"
	FormulasFile = "formulas.json"
	SuppliesFile = "supplies.json"
	RoomsFile    = "rooms.json"
)

// Target is the store being seeded.
type Target interface {
	catalog.Reader
	UpsertItem(ctx context.Context, item catalog.Item) error
	InsertFormula(ctx context.Context, f catalog.Formula) error
	UpsertSupply(ctx context.Context, supply catalog.Supply) error
	UpsertRoom(ctx context.Context, room catalog.Room) error
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

type itemFixture struct {
	Name        string `json:"item_name"`
	HiddenValue int    `json:"hidden_value"`
	Tab         string `json:"item_tab"`
}

type formulaFixture struct {
	Name    string `json:"formula_name"`
	Numbers string `json:"formula_numbers"`
}

type supplyFixture struct {
	Name        string  `json:"supply_name"`
	Supplier    string  `json:"supplier"`
	OrderPrice  float64 `json:"order_price"`
	ResellPrice float64 `json:"resell_price"`
}

type roomFixture struct {
	Name              string  `json:"room_name"`
	SmallBoxQuantity  float64 `json:"small_box_quantity"`
	MediumBoxQuantity float64 `json:"medium_box_quantity"`
	LargeBoxQuantity  float64 `json:"large_box_quantity"`
	PaperRollQuantity float64 `json:"paper_roll_quantity"`
	TapeRollQuantity  float64 `json:"tape_roll_quantity"`
	LaborHours        float64 `json:"labor_hours"`
}

// Run inserts every fixture row whose name is not in the store yet. Existing
// rows are left untouched, so running it twice is a no-op. Missing fixture
// files are skipped.
func Run(ctx context.Context, t Target, fsys fs.FS) (Stats, error) {
	snap, err := catalog.ReadSnapshot(ctx, t)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{}

	if err := seedFormulas(ctx, t, fsys, snap, &stats); err != nil {
		return stats, err
	}
	if err := seedItems(ctx, t, fsys, snap, &stats); err != nil {
		return stats, err
	}
	if err := seedSupplies(ctx, t, fsys, snap, &stats); err != nil {
		return stats, err
	}
	if err := seedRooms(ctx, t, fsys, snap, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func readFixture(fsys fs.FS, name string, dst any) (bool, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("seed fixture not found", "file", name)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func seedFormulas(ctx context.Context, t Target, fsys fs.FS, snap catalog.Snapshot, stats *Stats) error {
	var rows []formulaFixture
	if ok, err := readFixture(fsys, FormulasFile, &rows); !ok || err != nil {
		return err
	}
	existing := make(map[string]bool, len(snap.Formulas))
	for _, f := range snap.Formulas {
		existing[f.Name] = true
	}
	for _, r := range rows {
		if existing[r.Name] {
			stats.Skipped++
			continue
		}
		if _, err := formula.Decode(formula.Name(r.Name), r.Numbers); err != nil {
			return fmt.Errorf("seed formulas: %w", err)
		}
		if err := t.InsertFormula(ctx, catalog.Formula{Name: r.Name, Numbers: r.Numbers}); err != nil {
			return err
		}
		existing[r.Name] = true
		stats.Inserts++
	}
	return nil
}

func seedItems(ctx context.Context, t Target, fsys fs.FS, snap catalog.Snapshot, stats *Stats) error {
	var rows []itemFixture
	if ok, err := readFixture(fsys, ItemsFile, &rows); !ok || err != nil {
		return err
	}
	for _, r := range rows {
		if _, found := snap.FindItem(r.Name); found {
			stats.Skipped++
			continue
		}
		item := catalog.Item{Name: r.Name, HiddenValue: r.HiddenValue, Category: catalog.Category(r.Tab)}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
		if err := t.UpsertItem(ctx, item); err != nil {
			return err
		}
		snap.Items = append(snap.Items, item)
		stats.Inserts++
	}
	return nil
}

func seedSupplies(ctx context.Context, t Target, fsys fs.FS, snap catalog.Snapshot, stats *Stats) error {
	var rows []supplyFixture
	if ok, err := readFixture(fsys, SuppliesFile, &rows); !ok || err != nil {
		return err
	}
	existing := make(map[string]bool, len(snap.Supplies))
	for _, s := range snap.Supplies {
		existing[s.Name] = true
	}
	for _, r := range rows {
		if existing[r.Name] {
			stats.Skipped++
			continue
		}
		supply := catalog.Supply{Name: r.Name, Supplier: r.Supplier, OrderPrice: r.OrderPrice, ResellPrice: r.ResellPrice}
		if err := supply.Validate(); err != nil {
			return fmt.Errorf("seed supplies: %w", err)
		}
		if err := t.UpsertSupply(ctx, supply); err != nil {
			return err
		}
		existing[r.Name] = true
		stats.Inserts++
	}
	return nil
}

func seedRooms(ctx context.Context, t Target, fsys fs.FS, snap catalog.Snapshot, stats *Stats) error {
	var rows []roomFixture
	if ok, err := readFixture(fsys, RoomsFile, &rows); !ok || err != nil {
		return err
	}
	for _, r := range rows {
		if _, found := snap.FindRoom(r.Name); found {
			stats.Skipped++
			continue
		}
		room := catalog.Room{
			Name:              r.Name,
			SmallBoxQuantity:  r.SmallBoxQuantity,
			MediumBoxQuantity: r.MediumBoxQuantity,
			LargeBoxQuantity:  r.LargeBoxQuantity,
			PaperRollQuantity: r.PaperRollQuantity,
			TapeRollQuantity:  r.TapeRollQuantity,
			LaborHours:        r.LaborHours,
		}
		if err := room.Validate(); err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		if err := t.UpsertRoom(ctx, room); err != nil {
			return err
		}
		snap.Rooms = append(snap.Rooms, room)
		stats.Inserts++
	}
	return nil
}
