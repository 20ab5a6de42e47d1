package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floroz/ledger/internal/adapters/database"
	"github.com/floroz/ledger/internal/domain/items"
)

func newMemStore(t *testing.T, maxSize int) *database.LevelDBStore {
	t.Helper()
	store, err := database.NewMemLevelDBStore(items.NewRecordCodec(maxSize))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testItem(name string) *items.Item {
	return &items.Item{
		Name:        name,
		Description: "desc",
		IsListed:    true,
		Owner:       uuid.New(),
	}
}

func TestLevelDBStore_GetMissing(t *testing.T) {
	store := newMemStore(t, 0)

	item, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestLevelDBStore_InsertReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t, 0)

	first := testItem("first")
	prev, err := store.Insert(ctx, 7, first)
	require.NoError(t, err)
	assert.Nil(t, prev, "first insert has no previous record")

	second := testItem("second")
	prev, err = store.Insert(ctx, 7, second)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "first", prev.Name)
	assert.Equal(t, first.Owner, prev.Owner)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
}

func TestLevelDBStore_InsertTooLarge(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t, 100)

	original := testItem("lamp")
	_, err := store.Insert(ctx, 1, original)
	require.NoError(t, err)

	big := testItem("lamp")
	for i := 0; i < 5; i++ {
		big.Bids = append(big.Bids, items.Bidder{Identity: uuid.New(), Amount: uint64(i + 1)})
	}
	_, err = store.Insert(ctx, 1, big)
	assert.ErrorIs(t, err, items.ErrRecordTooLarge)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Bids, "oversized write must not replace the stored record")
}

func TestLevelDBStore_IterateInKeyOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t, 0)

	// big-endian keys keep numeric order, including keys above 2^63
	keys := []uint64{1 << 63, 300, 2, 256, 1}
	for _, k := range keys {
		_, err := store.Insert(ctx, k, testItem("item"))
		require.NoError(t, err)
	}

	var seen []uint64
	err := store.Iterate(ctx, func(key uint64, _ *items.Item) bool {
		seen = append(seen, key)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 256, 300, 1 << 63}, seen)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(keys)), count)
}

func TestLevelDBStore_IterateStopsEarly(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t, 0)
	for k := uint64(1); k <= 5; k++ {
		_, err := store.Insert(ctx, k, testItem("item"))
		require.NoError(t, err)
	}

	var seen int
	err := store.Iterate(ctx, func(uint64, *items.Item) bool {
		seen++
		return seen < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestLevelDBStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	codec := items.NewRecordCodec(0)

	store, err := database.OpenLevelDBStore(dir, codec)
	require.NoError(t, err)

	item := testItem("durable")
	item.Bids = []items.Bidder{{Identity: uuid.New(), Amount: 10}}
	_, err = store.Insert(ctx, 99, item)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := database.OpenLevelDBStore(dir, codec)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}
