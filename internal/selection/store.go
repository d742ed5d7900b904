package selection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flinthills/movequote/internal/catalog"
)

// Store persists the selection in the cache's selected_items table. It works
// the same whether the session is online or offline.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened and migrated cache database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces every stored row with the non-zero entries of sel.
func (s *Store) Save(ctx context.Context, sel Selection) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin selection transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM selected_items`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear selected items: %w", err)
	}

	entries := sel.Entries()
	for _, e := range entries {
		var tab sql.NullString
		if e.Kind == KindMove {
			tab = sql.NullString{String: string(e.Category), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO selected_items (name, type, item_tab, count)
			VALUES (?, ?, ?, ?)
		`, e.Name, string(e.Kind), tab, e.Count); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert selected item %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit selection transaction: %w", err)
	}
	return len(entries), nil
}

// Load reads every stored row back into a Selection.
func (s *Store) Load(ctx context.Context) (Selection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, item_tab, count
		FROM selected_items
		ORDER BY rowid
	`)
	if err != nil {
		return Selection{}, fmt.Errorf("query selected items: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e    Entry
			kind string
			tab  sql.NullString
		)
		if err := rows.Scan(&e.Name, &kind, &tab, &e.Count); err != nil {
			return Selection{}, fmt.Errorf("scan selected item: %w", err)
		}
		e.Kind = Kind(kind)
		if tab.Valid {
			e.Category = catalog.Category(tab.String)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return Selection{}, fmt.Errorf("iterate selected items: %w", err)
	}
	return FromEntries(entries), nil
}
