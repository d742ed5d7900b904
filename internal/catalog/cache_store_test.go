package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/db"
	"github.com/flinthills/movequote/internal/migrations"
)

func openCache(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrations.UpCache(conn))

	_, err = conn.Exec(`
		INSERT INTO items (id, item_name, hidden_value, item_tab) VALUES
			(2, 'Dresser', 20, 'Bedroom'),
			(1, 'Chair', 5, 'Kitchen');
		INSERT INTO formulas (id, formula_name, formula_numbers) VALUES (1, 'Low Range', '0.8');
		INSERT INTO supplies (id, supply_name, supplier, order_price, resell_price) VALUES
			(1, 'Small Box', NULL, 1.25, 3);
		INSERT INTO rooms (id, room_name, small_box_quantity, medium_box_quantity, large_box_quantity,
			paper_roll_quantity, tape_roll_quantity, labor_hours) VALUES
			(1, 'Kitchen', 10, 5, 2, 1, 1, 3.5);
	`)
	require.NoError(t, err)
	return conn
}

func TestCacheStore_Reads(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewCacheStore(openCache(t))
	assert.False(t, store.Online())

	snap, err := catalog.ReadSnapshot(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, []catalog.Item{
		{ID: 1, Name: "Chair", HiddenValue: 5, Category: catalog.CategoryKitchen},
		{ID: 2, Name: "Dresser", HiddenValue: 20, Category: catalog.CategoryBedroom},
	}, snap.Items)
	assert.Equal(t, []catalog.Formula{{ID: 1, Name: "Low Range", Numbers: "0.8"}}, snap.Formulas)
	assert.Equal(t, []catalog.Supply{{ID: 1, Name: "Small Box", OrderPrice: 1.25, ResellPrice: 3}}, snap.Supplies)
	assert.Equal(t, []catalog.Room{{
		ID: 1, Name: "Kitchen",
		SmallBoxQuantity: 10, MediumBoxQuantity: 5, LargeBoxQuantity: 2,
		PaperRollQuantity: 1, TapeRollQuantity: 1, LaborHours: 3.5,
	}}, snap.Rooms)

	room, ok := snap.FindRoom("Kitchen")
	assert.True(t, ok)
	assert.Equal(t, 3.5, room.LaborHours)
	_, ok = snap.FindItem("Piano")
	assert.False(t, ok)
}

func TestCacheStore_WritesAreRejected(t *testing.T) {
	ctx := context.Background()
	conn := openCache(t)
	store := catalog.NewCacheStore(conn)

	before, err := catalog.ReadSnapshot(ctx, store)
	require.NoError(t, err)

	writes := map[string]func() error{
		"upsert item": func() error {
			return store.UpsertItem(ctx, catalog.Item{Name: "Piano", HiddenValue: 30, Category: catalog.CategoryLivingRoom})
		},
		"delete item":    func() error { return store.DeleteItem(ctx, "Chair") },
		"update formula": func() error { return store.UpdateFormula(ctx, "Low Range", "0.5") },
		"upsert supply":  func() error { return store.UpsertSupply(ctx, catalog.Supply{Name: "Tape Roll"}) },
		"upsert room":    func() error { return store.UpsertRoom(ctx, catalog.Room{Name: "Office"}) },
		"delete room":    func() error { return store.DeleteRoom(ctx, "Kitchen") },
	}
	for name, write := range writes {
		err := write()
		assert.True(t, errors.Is(err, catalog.ErrUnsupportedOperation), "%s: %v", name, err)
	}

	after, err := catalog.ReadSnapshot(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, catalog.Item{Name: "Chair", HiddenValue: 5, Category: catalog.CategoryKitchen}.Validate())
	assert.ErrorIs(t, catalog.Item{Name: "Chair", Category: "Garage"}.Validate(), catalog.ErrInvalid)
	assert.ErrorIs(t, catalog.Item{Category: catalog.CategoryKitchen}.Validate(), catalog.ErrInvalid)
	assert.ErrorIs(t, catalog.Supply{Name: "Tape", OrderPrice: -1}.Validate(), catalog.ErrInvalid)
	assert.ErrorIs(t, catalog.Room{Name: "Den", LaborHours: -2}.Validate(), catalog.ErrInvalid)
	assert.NoError(t, catalog.Room{Name: "Den", LaborHours: 2}.Validate())
}
