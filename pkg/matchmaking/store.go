package matchmaking

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store mirrors the waiting entries so a restart does not lose paid registrations
type Store interface {
	Save(ctx context.Context, tier string, entries []Entry) error
	Load(ctx context.Context) (map[string][]Entry, error)
}

// RedisStore keeps every tier as a field of one Redis hash
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore returns a store writing to the hash at key
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		key: key,
	}
}

// Save replaces the tier's entries
func (r *RedisStore) Save(ctx context.Context, tier string, entries []Entry) error {
	if len(entries) == 0 {
		return r.rdb.HDel(ctx, r.key, tier).Err()
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return r.rdb.HSet(ctx, r.key, tier, data).Err()
}

// Load returns every saved tier
func (r *RedisStore) Load(ctx context.Context) (map[string][]Entry, error) {
	fields, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err == redis.Nil {
		return map[string][]Entry{}, nil
	}

	if err != nil {
		return nil, err
	}

	saved := make(map[string][]Entry, len(fields))
	for tier, data := range fields {
		var entries []Entry
		if err := json.Unmarshal([]byte(data), &entries); err != nil {
			return nil, err
		}

		saved[tier] = entries
	}

	return saved, nil
}

// MemoryStore keeps the entries in memory
type MemoryStore struct {
	mu    sync.Mutex
	tiers map[string][]Entry
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tiers: make(map[string][]Entry)}
}

// Save replaces the tier's entries
func (m *MemoryStore) Save(_ context.Context, tier string, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(entries) == 0 {
		delete(m.tiers, tier)
		return nil
	}

	m.tiers[tier] = append([]Entry(nil), entries...)
	return nil
}

// Load returns every saved tier
func (m *MemoryStore) Load(_ context.Context) (map[string][]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[string][]Entry, len(m.tiers))
	for tier, entries := range m.tiers {
		saved[tier] = append([]Entry(nil), entries...)
	}

	return saved, nil
}
