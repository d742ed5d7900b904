package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// PgStore is the authoritative catalog backed by PostgreSQL.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a PgStore using pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Online() bool { return true }

func (s *PgStore) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, item_name, hidden_value, item_tab FROM items ORDER BY id`,
	)
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
	return items, rows.Err()
}

func (s *PgStore) ListFormulas(ctx context.Context) ([]Formula, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, formula_name, formula_numbers FROM formulas ORDER BY id`,
	)
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
	return formulas, rows.Err()
}

func (s *PgStore) ListSupplies(ctx context.Context) ([]Supply, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, supply_name, COALESCE(supplier, ''), order_price, resell_price
		 FROM supplies ORDER BY id`,
	)
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
	return supplies, rows.Err()
}

func (s *PgStore) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_name, small_box_quantity, medium_box_quantity, large_box_quantity,
		        paper_roll_quantity, tape_roll_quantity, labor_hours
		 FROM rooms ORDER BY id`,
	)
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
	return rooms, rows.Err()
}

// UpsertItem inserts item or updates the existing row with the same name.
func (s *PgStore) UpsertItem(ctx context.Context, item Item) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO items (item_name, hidden_value, item_tab)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (item_name) DO UPDATE
		 SET hidden_value = EXCLUDED.hidden_value, item_tab = EXCLUDED.item_tab`,
		item.Name, item.HiddenValue, string(item.Category),
	)
	if err != nil {
		return fmt.Errorf("upsert item %q: %w", item.Name, err)
	}
	return nil
}

func (s *PgStore) DeleteItem(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM items WHERE item_name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFormula replaces the stored parameters of an existing formula. The
// set of formulas is fixed, so a missing name is ErrNotFound rather than an insert.
func (s *PgStore) UpdateFormula(ctx context.Context, name, numbers string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE formulas SET formula_numbers = $2 WHERE formula_name = $1`,
		name, numbers,
	)
	if err != nil {
		return fmt.Errorf("update formula %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertFormula adds a formula row. It is used when seeding an empty store;
// editing goes through UpdateFormula.
func (s *PgStore) InsertFormula(ctx context.Context, f Formula) error {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO formulas (formula_name, formula_numbers) VALUES ($1, $2)`,
		f.Name, f.Numbers,
	); err != nil {
		return fmt.Errorf("insert formula %q: %w", f.Name, err)
	}
	return nil
}

func (s *PgStore) UpsertSupply(ctx context.Context, supply Supply) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO supplies (supply_name, supplier, order_price, resell_price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (supply_name) DO UPDATE
		 SET supplier = EXCLUDED.supplier,
		     order_price = EXCLUDED.order_price,
		     resell_price = EXCLUDED.resell_price`,
		supply.Name, supply.Supplier, supply.OrderPrice, supply.ResellPrice,
	)
	if err != nil {
		return fmt.Errorf("upsert supply %q: %w", supply.Name, err)
	}
	return nil
}

func (s *PgStore) UpsertRoom(ctx context.Context, room Room) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rooms (room_name, small_box_quantity, medium_box_quantity, large_box_quantity,
		                    paper_roll_quantity, tape_roll_quantity, labor_hours)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (room_name) DO UPDATE
		 SET small_box_quantity = EXCLUDED.small_box_quantity,
		     medium_box_quantity = EXCLUDED.medium_box_quantity,
		     large_box_quantity = EXCLUDED.large_box_quantity,
		     paper_roll_quantity = EXCLUDED.paper_roll_quantity,
		     tape_roll_quantity = EXCLUDED.tape_roll_quantity,
		     labor_hours = EXCLUDED.labor_hours`,
		room.Name, room.SmallBoxQuantity, room.MediumBoxQuantity, room.LargeBoxQuantity,
		room.PaperRollQuantity, room.TapeRollQuantity, room.LaborHours,
	)
	if err != nil {
		return fmt.Errorf("upsert room %q: %w", room.Name, err)
	}
	return nil
}

func (s *PgStore) DeleteRoom(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE room_name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete room %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
