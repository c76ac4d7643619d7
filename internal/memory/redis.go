package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const redisIndexKey = "memory:index"

// RedisStore keeps records as JSON values with the enumeration index in a
// hash. Redis writes are single commands, so the atomic-replace guarantee
// holds without a temp-and-rename dance.
type RedisStore struct {
	redis  *redis.Client
	caps   Caps
	tracer trace.Tracer
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, caps Caps) *RedisStore {
	if client == nil {
		panic("memory: redis client cannot be nil")
	}
	return &RedisStore{
		redis:  client,
		caps:   caps,
		tracer: otel.Tracer("fanloop.internal.memory.redis"),
	}
}

func recordKey(identityID string) string {
	return fmt.Sprintf("memory:record:%s", identityID)
}

// GetOrCreate loads the identity's record, or returns a fresh empty one if
// the key is missing or holds something unparseable.
func (s *RedisStore) GetOrCreate(ctx context.Context, identityID string) (*Record, error) {
	ctx, span := s.tracer.Start(ctx, "memory.get_record")
	defer span.End()

	data, err := s.redis.Get(ctx, recordKey(identityID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
		}
		return NewRecordWithCaps(identityID, s.caps), nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil || record.IdentityID == "" {
		return NewRecordWithCaps(identityID, s.caps), nil
	}
	record.init(s.caps)
	return &record, nil
}

// Save persists the record and refreshes the index hash.
func (s *RedisStore) Save(ctx context.Context, record *Record) error {
	ctx, span := s.tracer.Start(ctx, "memory.save_record")
	defer span.End()

	data, err := json.Marshal(record)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("memory: marshal record: %w", err)
	}
	if err := s.redis.Set(ctx, recordKey(record.IdentityID), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("memory: persist record: %w", err)
	}

	entry, err := json.Marshal(IndexEntry{CreatedAt: record.CreatedAt, LastActive: record.LastActive})
	if err != nil {
		return fmt.Errorf("memory: marshal index entry: %w", err)
	}
	if err := s.redis.HSet(ctx, redisIndexKey, record.IdentityID, entry).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("memory: update index: %w", err)
	}
	return nil
}

// Delete removes the record and its index entry.
func (s *RedisStore) Delete(ctx context.Context, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "memory.delete_record")
	defer span.End()

	if err := s.redis.Del(ctx, recordKey(identityID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("memory: delete record: %w", err)
	}
	if err := s.redis.HDel(ctx, redisIndexKey, identityID).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("memory: delete index entry: %w", err)
	}
	return nil
}

// List returns all known identity IDs from the index hash.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "memory.list_records")
	defer span.End()

	ids, err := s.redis.HKeys(ctx, redisIndexKey).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("memory: list index: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the number of identities in the index.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "memory.count_records")
	defer span.End()

	n, err := s.redis.HLen(ctx, redisIndexKey).Result()
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("memory: count index: %w", err)
	}
	return int(n), nil
}
