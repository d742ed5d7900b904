package syncer

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
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
	return conn
}

func firstSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Items: []catalog.Item{
			{ID: 1, Name: "Couch", HiddenValue: 20, Category: catalog.CategoryLivingRoom},
			{ID: 2, Name: "Bed", HiddenValue: 15, Category: catalog.CategoryBedroom},
		},
		Formulas: []catalog.Formula{{ID: 1, Name: "Adjust Multiplier", Numbers: "1.1"}},
		Supplies: []catalog.Supply{{ID: 1, Name: "Small Box", Supplier: "U-Haul", OrderPrice: 1.5, ResellPrice: 3}},
		Rooms:    []catalog.Room{{ID: 1, Name: "Kitchen", SmallBoxQuantity: 10, LaborHours: 2}},
	}
}

func secondSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Items: []catalog.Item{
			{ID: 2, Name: "Bed", HiddenValue: 16, Category: catalog.CategoryBedroom},
			{ID: 7, Name: "Grill", HiddenValue: 10, Category: catalog.CategoryOutside},
		},
		Formulas: []catalog.Formula{{ID: 1, Name: "Adjust Multiplier", Numbers: "1.2"}},
		Supplies: []catalog.Supply{},
		Rooms: []catalog.Room{
			{ID: 3, Name: "Garage", LargeBoxQuantity: 6, PaperRollQuantity: 1, TapeRollQuantity: 1, LaborHours: 3},
		},
	}
}

func TestSync_ReplacesEveryTable(t *testing.T) {
	ctx := context.Background()
	cache := openCache(t)

	_, err := New(firstSnapshot(), cache).Sync(ctx)
	require.NoError(t, err)

	want := secondSnapshot()
	report, err := New(want, cache).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{TableItems: 2, TableFormulas: 1, TableSupplies: 0, TableRooms: 1}, report.Counts)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.False(t, report.Finished.Before(report.Started))

	got, err := catalog.ReadSnapshot(ctx, catalog.NewCacheStore(cache))
	require.NoError(t, err)
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Formulas, got.Formulas)
	assert.Empty(t, got.Supplies)
	assert.Equal(t, want.Rooms, got.Rooms)
}

func TestSync_FailedTableKeepsPreviousRows(t *testing.T) {
	ctx := context.Background()
	cache := openCache(t)

	_, err := New(firstSnapshot(), cache).Sync(ctx)
	require.NoError(t, err)

	broken := secondSnapshot()
	broken.Items = append(broken.Items, catalog.Item{ID: 9, Name: "Bed", HiddenValue: 1, Category: catalog.CategoryBedroom})

	_, err = New(broken, cache).Sync(ctx)
	var tableErr *TableError
	require.True(t, errors.As(err, &tableErr), "got %v", err)
	assert.Equal(t, TableItems, tableErr.Table)

	got, err := catalog.ReadSnapshot(ctx, catalog.NewCacheStore(cache))
	require.NoError(t, err)
	assert.Equal(t, firstSnapshot().Items, got.Items)
	assert.Equal(t, firstSnapshot().Formulas, got.Formulas)
	assert.Equal(t, firstSnapshot().Rooms, got.Rooms)
}

type failingReader struct {
	catalog.Snapshot
}

func (failingReader) ListRooms(context.Context) ([]catalog.Room, error) {
	return nil, errors.New("connection reset")
}

func TestSync_SourceFailureTouchesNothing(t *testing.T) {
	ctx := context.Background()
	cache := openCache(t)

	_, err := New(firstSnapshot(), cache).Sync(ctx)
	require.NoError(t, err)

	_, err = New(failingReader{secondSnapshot()}, cache).Sync(ctx)
	require.Error(t, err)
	var tableErr *TableError
	assert.False(t, errors.As(err, &tableErr))

	got, err := catalog.ReadSnapshot(ctx, catalog.NewCacheStore(cache))
	require.NoError(t, err)
	assert.Equal(t, firstSnapshot().Items, got.Items)
}
