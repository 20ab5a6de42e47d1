package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/floroz/ledger/internal/domain/items"
)

// itemPrefix namespaces item records inside the LevelDB keyspace
const itemPrefix byte = 'I'

// LevelDBStore implements items.RecordStore on an embedded LevelDB database.
// Records survive process restarts when opened on a directory.
type LevelDBStore struct {
	mu    sync.Mutex // makes Insert's read of the previous value and write atomic
	db    *leveldb.DB
	codec items.RecordCodec
}

// OpenLevelDBStore opens (or creates) a store in the given directory
func OpenLevelDBStore(path string, codec items.RecordCodec) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	return &LevelDBStore{db: db, codec: codec}, nil
}

// NewMemLevelDBStore creates a store backed by in-memory LevelDB storage
func NewMemLevelDBStore(codec items.RecordCodec) (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory leveldb: %w", err)
	}
	return &LevelDBStore{db: db, codec: codec}, nil
}

// Close releases the database
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

func (s *LevelDBStore) dbKey(key uint64) []byte {
	return append([]byte{itemPrefix}, encodeKey(key)...)
}

// Get retrieves the record at key
func (s *LevelDBStore) Get(ctx context.Context, key uint64) (*items.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.get(key)
}

func (s *LevelDBStore) get(key uint64) (*items.Item, error) {
	data, err := s.db.Get(s.dbKey(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", key, err)
	}
	item, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item %d: %w", key, err)
	}
	return item, nil
}

// Insert writes the record at key, returning the previous one
func (s *LevelDBStore) Insert(ctx context.Context, key uint64, item *items.Item) (*items.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.codec.Encode(item)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.get(key)
	if err != nil {
		return nil, err
	}

	if err := s.db.Put(s.dbKey(key), data, &opt.WriteOptions{Sync: true}); err != nil {
		return nil, fmt.Errorf("failed to put item %d: %w", key, err)
	}
	return prev, nil
}

// Iterate walks the records in ascending key order
func (s *LevelDBStore) Iterate(ctx context.Context, fn func(key uint64, item *items.Item) bool) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{itemPrefix}), nil)
	defer iter.Release()

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		// contents of the returned slices are only valid until the next call to Next
		key, err := decodeKey(iter.Key()[1:])
		if err != nil {
			return err
		}
		item, err := s.codec.Decode(iter.Value())
		if err != nil {
			return fmt.Errorf("failed to decode item %d: %w", key, err)
		}
		if !fn(key, item) {
			break
		}
	}
	return iter.Error()
}

// Count returns the number of records
func (s *LevelDBStore) Count(ctx context.Context) (uint64, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{itemPrefix}), nil)
	defer iter.Release()

	var n uint64
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n++
	}
	return n, iter.Error()
}
