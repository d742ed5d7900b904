package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// CacheStore reads the catalog from the local SQLite replica. Every write
// returns ErrUnsupportedOperation; the cache only changes through a sync.
type CacheStore struct {
	db *sql.DB
}

// NewCacheStore wraps an opened and migrated cache database.
func NewCacheStore(db *sql.DB) *CacheStore {
	return &CacheStore{db: db}
}

func (s *CacheStore) Online() bool { return false }

func (s *CacheStore) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_name, hidden_value, item_tab
		FROM items
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		var tab string
		if err := rows.Scan(&it.ID, &it.Name, &it.HiddenValue, &tab); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Category = Category(tab)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (s *CacheStore) ListFormulas(ctx context.Context) ([]Formula, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, formula_name, formula_numbers
		FROM formulas
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query formulas: %w", err)
	}
	defer rows.Close()

	formulas := make([]Formula, 0)
	for rows.Next() {
		var f Formula
		if err := rows.Scan(&f.ID, &f.Name, &f.Numbers); err != nil {
			return nil, fmt.Errorf("scan formula: %w", err)
		}
		formulas = append(formulas, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate formulas: %w", err)
	}
	return formulas, nil
}

func (s *CacheStore) ListSupplies(ctx context.Context) ([]Supply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supply_name, COALESCE(supplier, ''), order_price, resell_price
		FROM supplies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query supplies: %w", err)
	}
	defer rows.Close()

	supplies := make([]Supply, 0)
	for rows.Next() {
		var sp Supply
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Supplier, &sp.OrderPrice, &sp.ResellPrice); err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		supplies = append(supplies, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplies: %w", err)
	}
	return supplies, nil
}

func (s *CacheStore) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_name, small_box_quantity, medium_box_quantity, large_box_quantity,
			paper_roll_quantity, tape_roll_quantity, labor_hours
		FROM rooms
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]Room, 0)
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.SmallBoxQuantity, &r.MediumBoxQuantity, &r.LargeBoxQuantity,
			&r.PaperRollQuantity, &r.TapeRollQuantity, &r.LaborHours); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}

func (s *CacheStore) UpsertItem(context.Context, Item) error { return ErrUnsupportedOperation }

func (s *CacheStore) DeleteItem(context.Context, string) error { return ErrUnsupportedOperation }

func (s *CacheStore) UpdateFormula(context.Context, string, string) error {
	return ErrUnsupportedOperation
}

func (s *CacheStore) UpsertSupply(context.Context, Supply) error { return ErrUnsupportedOperation }

func (s *CacheStore) UpsertRoom(context.Context, Room) error { return ErrUnsupportedOperation }

func (s *CacheStore) DeleteRoom(context.Context, string) error { return ErrUnsupportedOperation }
