package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/floroz/ledger/internal/domain/items"
)

// DefaultRedisKey is the hash holding item records
const DefaultRedisKey = "ledger:items"

// insertScript replaces a hash field and returns its previous value in one
// atomic step on the Redis server.
//
// KEYS[1]: records hash
// ARGV[1]: item key (decimal)
// ARGV[2]: encoded record
var insertScript = redis.NewScript(`
	local prev = redis.call('HGET', KEYS[1], ARGV[1])
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return prev
`)

// RedisStore implements items.RecordStore on a single Redis hash.
// Durability across restarts depends on the server's persistence settings (AOF/RDB).
type RedisStore struct {
	client *redis.Client
	key    string
	codec  items.RecordCodec
}

// NewRedisStore creates a store keeping records in the hash named key
func NewRedisStore(client *redis.Client, key string, codec items.RecordCodec) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		codec:  codec,
	}
}

func field(key uint64) string {
	return strconv.FormatUint(key, 10)
}

// Get retrieves the record at key
func (s *RedisStore) Get(ctx context.Context, key uint64) (*items.Item, error) {
	data, err := s.client.HGet(ctx, s.key, field(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", key, err)
	}
	return s.decode(key, data)
}

// Insert writes the record at key, returning the previous one
func (s *RedisStore) Insert(ctx context.Context, key uint64, item *items.Item) (*items.Item, error) {
	data, err := s.codec.Encode(item)
	if err != nil {
		return nil, err
	}

	prev, err := insertScript.Run(ctx, s.client, []string{s.key}, field(key), data).Text()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save item %d: %w", key, err)
	}
	return s.decode(key, []byte(prev))
}

// Iterate walks the records in ascending key order.
// The whole hash is read in one round trip and sorted client side.
func (s *RedisStore) Iterate(ctx context.Context, fn func(key uint64, item *items.Item) bool) error {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	keys := make([]uint64, 0, len(all))
	for f := range all {
		k, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item key %q: %w", f, err)
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		item, err := s.decode(k, []byte(all[field(k)]))
		if err != nil {
			return err
		}
		if !fn(k, item) {
			return nil
		}
	}
	return nil
}

// Count returns the number of records
func (s *RedisStore) Count(ctx context.Context) (uint64, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return uint64(n), nil
}

func (s *RedisStore) decode(key uint64, data []byte) (*items.Item, error) {
	item, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item %d: %w", key, err)
	}
	return item, nil
}
