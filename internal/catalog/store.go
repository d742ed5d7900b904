package catalog

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned for catalog writes against the local cache.
	ErrUnsupportedOperation = errors.New("unsupported operation: catalog cache is read-only")
	// ErrNotFound is returned when the targeted row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a record fails validation before being written.
	ErrInvalid = errors.New("invalid record")
)

// Reader exposes the read operations both backends support.
type Reader interface {
	ListItems(ctx context.Context) ([]Item, error)
	ListFormulas(ctx context.Context) ([]Formula, error)
	ListSupplies(ctx context.Context) ([]Supply, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// Writer exposes catalog mutations. Only the authoritative store supports them.
type Writer interface {
	UpsertItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, name string) error
	UpdateFormula(ctx context.Context, name, numbers string) error
	UpsertSupply(ctx context.Context, supply Supply) error
	UpsertRoom(ctx context.Context, room Room) error
	DeleteRoom(ctx context.Context, name string) error
}

// Store is a catalog backend. Online reports whether it is the authoritative store.
type Store interface {
	Reader
	Writer
	Online() bool
}

// ReadSnapshot reads all four tables from r.
func ReadSnapshot(ctx context.Context, r Reader) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Items, err = r.ListItems(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list items: %w", err)
	}
	if snap.Formulas, err = r.ListFormulas(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list formulas: %w", err)
	}
	if snap.Supplies, err = r.ListSupplies(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list supplies: %w", err)
	}
	if snap.Rooms, err = r.ListRooms(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("list rooms: %w", err)
	}
	return snap, nil
}

// ListItems returns the snapshot's items, letting a Snapshot serve as a Reader.
func (s Snapshot) ListItems(context.Context) ([]Item, error) { return s.Items, nil }

func (s Snapshot) ListFormulas(context.Context) ([]Formula, error) { return s.Formulas, nil }

func (s Snapshot) ListSupplies(context.Context) ([]Supply, error) { return s.Supplies, nil }

func (s Snapshot) ListRooms(context.Context) ([]Room, error) { return s.Rooms, nil }
