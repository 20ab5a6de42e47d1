//go:build integration

package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floroz/ledger/internal/adapters/database"
	"github.com/floroz/ledger/internal/domain/items"
	"github.com/floroz/ledger/pkg/testhelpers"
)

func TestPostgresStore_Contract(t *testing.T) {
	testDB := testhelpers.NewTestDatabase(t)

	pool := testDB.Pool
	txManager := database.NewPostgresTransactionManager(pool, 5*time.Second)

	runRecordStoreContract(t, func(t *testing.T) items.RecordStore {
		testDB.Reset(t)
		return database.NewPostgresStore(pool, txManager, items.NewRecordCodec(100))
	})
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	testDB := testhelpers.NewTestDatabase(t)

	require.NoError(t, database.Migrate(context.Background(), testDB.ConnStr))
}

func TestPostgresStore_EngineSerializesConcurrentBids(t *testing.T) {
	testDB := testhelpers.NewTestDatabase(t)
	ctx := context.Background()

	txManager := database.NewPostgresTransactionManager(testDB.Pool, 5*time.Second)
	store := database.NewPostgresStore(testDB.Pool, txManager, items.NewRecordCodec(4096))
	svc := items.NewService(store, nil, nil)

	require.NoError(t, svc.CreateItem(ctx, uuid.New(), 1, items.CreateItem{Name: "Clock", IsListed: true}))

	const bidders = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 1; i <= bidders; i++ {
		wg.Add(1)
		go func(amount uint64) {
			defer wg.Done()
			if err := svc.Bid(ctx, uuid.New(), 1, amount); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, items.ErrBidMoreForThisItem)
			}
		}(uint64(i * 10))
	}
	wg.Wait()

	item, err := svc.GetItem(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item)

	// Every accepted bid was written, none lost to an interleaved write
	require.Len(t, item.Bids, accepted)
	for i := 1; i < len(item.Bids); i++ {
		assert.Greater(t, item.Bids[i].Amount, item.Bids[i-1].Amount)
	}
	assert.Equal(t, uint64(bidders*10), item.HighestBidAmount())
}
