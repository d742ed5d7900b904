package app

import (
	"context"
	"fmt"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
)

// Editor validates catalog changes before handing them to the store.
type Editor struct {
	store catalog.Writer
}

// NewEditor returns an Editor writing to w.
func NewEditor(w catalog.Writer) *Editor {
	return &Editor{store: w}
}

func (e *Editor) UpsertItem(ctx context.Context, item catalog.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return e.store.UpsertItem(ctx, item)
}

func (e *Editor) DeleteItem(ctx context.Context, name string) error {
	return e.store.DeleteItem(ctx, name)
}

// UpdateFormula encodes params and stores them for formula n.
func (e *Editor) UpdateFormula(ctx context.Context, n formula.Name, params []float64) error {
	numbers, err := formula.Encode(n, params)
	if err != nil {
		return err
	}
	return e.store.UpdateFormula(ctx, string(n), numbers)
}

// UpdateFormulaText stores already joined numbers after checking they decode.
func (e *Editor) UpdateFormulaText(ctx context.Context, n formula.Name, numbers string) error {
	if _, err := formula.Decode(n, numbers); err != nil {
		return err
	}
	if err := e.store.UpdateFormula(ctx, string(n), numbers); err != nil {
		return fmt.Errorf("update formula: %w", err)
	}
	return nil
}

func (e *Editor) UpsertSupply(ctx context.Context, supply catalog.Supply) error {
	if err := supply.Validate(); err != nil {
		return err
	}
	return e.store.UpsertSupply(ctx, supply)
}

func (e *Editor) UpsertRoom(ctx context.Context, room catalog.Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	return e.store.UpsertRoom(ctx, room)
}

func (e *Editor) DeleteRoom(ctx context.Context, name string) error {
	return e.store.DeleteRoom(ctx, name)
}
