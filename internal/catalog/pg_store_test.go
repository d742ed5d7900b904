package catalog_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/migrations"
)

// PostgreSQL tests run only when MOVEQUOTE_TEST_DATABASE_URL points at a
// disposable database.
func openPg(t *testing.T) *catalog.PgStore {
	t.Helper()
	url := os.Getenv("MOVEQUOTE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MOVEQUOTE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := catalog.NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.UpPostgres(pool))
	_, err = pool.Exec(ctx, `TRUNCATE items, formulas, supplies, rooms RESTART IDENTITY`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO formulas (formula_name, formula_numbers) VALUES ('Low Range', '0.8')`)
	require.NoError(t, err)
	return catalog.NewPgStore(pool)
}

func TestPgStore_Writes(t *testing.T) {
	store := openPg(t)
	ctx := context.Background()
	assert.True(t, store.Online())

	require.NoError(t, store.UpsertItem(ctx, catalog.Item{Name: "Piano", HiddenValue: 30, Category: catalog.CategoryLivingRoom}))
	require.NoError(t, store.UpsertItem(ctx, catalog.Item{Name: "Piano", HiddenValue: 35, Category: catalog.CategoryLivingRoom}))
	require.NoError(t, store.UpsertSupply(ctx, catalog.Supply{Name: "Small Box", Supplier: "U-Haul", OrderPrice: 1, ResellPrice: 2}))
	require.NoError(t, store.UpsertRoom(ctx, catalog.Room{Name: "Office", SmallBoxQuantity: 4, LaborHours: 1.5}))
	require.NoError(t, store.UpdateFormula(ctx, "Low Range", "0.75"))

	snap, err := catalog.ReadSnapshot(ctx, store)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 35, snap.Items[0].HiddenValue)
	assert.Equal(t, "0.75", snap.Formulas[0].Numbers)
	assert.Equal(t, "U-Haul", snap.Supplies[0].Supplier)
	assert.Equal(t, 1.5, snap.Rooms[0].LaborHours)

	require.NoError(t, store.DeleteItem(ctx, "Piano"))
	require.NoError(t, store.DeleteRoom(ctx, "Office"))
	assert.ErrorIs(t, store.DeleteItem(ctx, "Piano"), catalog.ErrNotFound)
	assert.ErrorIs(t, store.DeleteRoom(ctx, "Office"), catalog.ErrNotFound)
	assert.ErrorIs(t, store.UpdateFormula(ctx, "Nope", "1"), catalog.ErrNotFound)
}
