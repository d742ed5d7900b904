// Package syncer mirrors the authoritative catalog into the local cache.
//
// A sync reads a full snapshot of the source first and then replaces each
// cache table in its own transaction. A failure rolls back the table being
// replaced, so every table always holds either its previous rows or the new
// snapshot, never a mix.
package syncer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flinthills/movequote/internal/catalog"
)

// Table names in replace order.
const (
	TableItems    = "items"
	TableFormulas = "formulas"
	TableSupplies = "supplies"
	TableRooms    = "rooms"
)

// TableError reports the table whose replace failed. Tables replaced before
// it keep the new snapshot.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// Report describes a completed sync.
type Report struct {
	ID       uuid.UUID
	Started  time.Time
	Finished time.Time
	Counts   map[string]int
}

// Manager copies from Source into the cache database.
type Manager struct {
	Source catalog.Reader
	Cache  *sql.DB
	Now    func() time.Time
}

// New returns a Manager.
func New(source catalog.Reader, cache *sql.DB) *Manager {
	return &Manager{Source: source, Cache: cache, Now: time.Now}
}

// Sync performs a full replace of the four catalog tables.
func (m *Manager) Sync(ctx context.Context) (Report, error) {
	report := Report{ID: uuid.New(), Started: m.Now(), Counts: make(map[string]int, 4)}
	log := slog.With("sync_id", report.ID.String())

	snap, err := catalog.ReadSnapshot(ctx, m.Source)
	if err != nil {
		return report, fmt.Errorf("read authoritative snapshot: %w", err)
	}

	steps := []struct {
		table string
		fill  func(context.Context, *sql.Tx) (int, error)
	}{
		{TableItems, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertItems(ctx, tx, snap.Items) }},
		{TableFormulas, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertFormulas(ctx, tx, snap.Formulas) }},
		{TableSupplies, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertSupplies(ctx, tx, snap.Supplies) }},
		{TableRooms, func(ctx context.Context, tx *sql.Tx) (int, error) { return insertRooms(ctx, tx, snap.Rooms) }},
	}
	for _, step := range steps {
		n, err := m.replace(ctx, step.table, step.fill)
		if err != nil {
			log.Error("sync table failed", "table", step.table, "err", err)
			return report, &TableError{Table: step.table, Err: err}
		}
		report.Counts[step.table] = n
		log.Info("synced table", "table", step.table, "rows", n)
	}

	report.Finished = m.Now()
	return report, nil
}

func (m *Manager) replace(ctx context.Context, table string, fill func(context.Context, *sql.Tx) (int, error)) (int, error) {
	tx, err := m.Cache.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	// table is one of the constants above.
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear cache table: %w", err)
	}
	n, err := fill(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return n, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, items []catalog.Item) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, item_name, hidden_value, item_tab)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, it.ID, it.Name, it.HiddenValue, string(it.Category)); err != nil {
			return 0, fmt.Errorf("insert item %q: %w", it.Name, err)
		}
	}
	return len(items), nil
}

func insertFormulas(ctx context.Context, tx *sql.Tx, formulas []catalog.Formula) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO formulas (id, formula_name, formula_numbers)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare formula insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range formulas {
		if _, err := stmt.ExecContext(ctx, f.ID, f.Name, f.Numbers); err != nil {
			return 0, fmt.Errorf("insert formula %q: %w", f.Name, err)
		}
	}
	return len(formulas), nil
}

func insertSupplies(ctx context.Context, tx *sql.Tx, supplies []catalog.Supply) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO supplies (id, supply_name, supplier, order_price, resell_price)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare supply insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range supplies {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Supplier, s.OrderPrice, s.ResellPrice); err != nil {
			return 0, fmt.Errorf("insert supply %q: %w", s.Name, err)
		}
	}
	return len(supplies), nil
}

func insertRooms(ctx context.Context, tx *sql.Tx, rooms []catalog.Room) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rooms (
			id,
			room_name,
			small_box_quantity,
			medium_box_quantity,
			large_box_quantity,
			paper_roll_quantity,
			tape_roll_quantity,
			labor_hours
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare room insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rooms {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name,
			r.SmallBoxQuantity, r.MediumBoxQuantity, r.LargeBoxQuantity,
			r.PaperRollQuantity, r.TapeRollQuantity, r.LaborHours,
		); err != nil {
			return 0, fmt.Errorf("insert room %q: %w", r.Name, err)
		}
	}
	return len(rooms), nil
}
