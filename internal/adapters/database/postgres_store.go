package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/ledger/internal/domain/items"
)

// PostgresStore implements items.RecordStore on a ledger_items table.
// Keys are stored as 8-byte big-endian BYTEA so ORDER BY follows unsigned order.
//
// The engine's read-modify-write is serialized by its own mutex, not by this
// store: Insert locks the row only long enough to return the value it
// replaces. Run a single writer process per table.
type PostgresStore struct {
	pool      *pgxpool.Pool // non-transactional reads
	txManager TransactionManager
	codec     items.RecordCodec
}

// NewPostgresStore creates a new PostgreSQL record store
func NewPostgresStore(pool *pgxpool.Pool, txManager TransactionManager, codec items.RecordCodec) *PostgresStore {
	return &PostgresStore{
		pool:      pool,
		txManager: txManager,
		codec:     codec,
	}
}

// Get retrieves the record at key (non-transactional read)
func (s *PostgresStore) Get(ctx context.Context, key uint64) (*items.Item, error) {
	return s.get(ctx, s.pool, key, false)
}

// get is the internal implementation that works with any DBTX
func (s *PostgresStore) get(ctx context.Context, db DBTX, key uint64, forUpdate bool) (*items.Item, error) {
	query := `
		SELECT record
		FROM ledger_items
		WHERE item_key = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var data []byte
	err := db.QueryRow(ctx, query, encodeKey(key)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	item, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item %d: %w", key, err)
	}
	return item, nil
}

// Insert upserts the record at key within a transaction, returning the previous one
func (s *PostgresStore) Insert(ctx context.Context, key uint64, item *items.Item) (*items.Item, error) {
	data, err := s.codec.Encode(item)
	if err != nil {
		return nil, err
	}

	var prev *items.Item
	err = InTx(ctx, s.txManager, func(tx pgx.Tx) error {
		// Lock the existing row, if any, so the previous value we return is the one we replace
		var getErr error
		prev, getErr = s.get(ctx, tx, key, true)
		if getErr != nil {
			return getErr
		}

		query := `
			INSERT INTO ledger_items (item_key, record)
			VALUES ($1, $2)
			ON CONFLICT (item_key) DO UPDATE
			SET record = EXCLUDED.record, updated_at = NOW()
		`
		if _, execErr := tx.Exec(ctx, query, encodeKey(key), data); execErr != nil {
			return fmt.Errorf("failed to save item: %w", execErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// Iterate walks the records in ascending key order
func (s *PostgresStore) Iterate(ctx context.Context, fn func(key uint64, item *items.Item) bool) error {
	query := `
		SELECT item_key, record
		FROM ledger_items
		ORDER BY item_key ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawKey, data []byte
		if err := rows.Scan(&rawKey, &data); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		key, err := decodeKey(rawKey)
		if err != nil {
			return err
		}
		item, err := s.codec.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to decode item %d: %w", key, err)
		}
		if !fn(key, item) {
			return nil
		}
	}
	return rows.Err()
}

// Count returns the number of records
func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return uint64(n), nil
}
