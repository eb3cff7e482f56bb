package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
)

const (
	redisKeyPrefix  = "lead-engine:import:"
	redisTxAttempts = 3
)

// RedisStore keeps import sessions in Redis so the flow survives engine
// restarts and can be served by multiple replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. A non-positive TTL
// defaults to one hour; Redis requires an expiry for these keys.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, filename string, table *models.RawTable) (*Import, error) {
	imp := &Import{
		ID:        uuid.New(),
		Filename:  filename,
		Table:     table,
		CreatedAt: time.Now(),
	}
	if err := s.put(ctx, imp); err != nil {
		return nil, err
	}
	return imp, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Import, error) {
	payload, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrImportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}

	var imp Import
	if err := json.Unmarshal(payload, &imp); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	return &imp, nil
}

// SaveMappings implements Store. The read-modify-write runs under WATCH
// so two replicas editing the same session cannot silently drop each
// other's mapping list; a conflicting write aborts the transaction and
// the save is retried against the fresh value.
func (s *RedisStore) SaveMappings(ctx context.Context, id uuid.UUID, mappings []models.FieldMapping) error {
	key := redisKey(id)

	save := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrImportNotFound
		}
		if err != nil {
			return fmt.Errorf("get import: %w", err)
		}

		var imp Import
		if err := json.Unmarshal(payload, &imp); err != nil {
			return fmt.Errorf("decode import: %w", err)
		}
		imp.Mappings = mappings

		out, err := json.Marshal(&imp)
		if err != nil {
			return fmt.Errorf("encode import: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisTxAttempts; attempt++ {
		err := s.client.Watch(ctx, save, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("save mappings: %w", redis.TxFailedErr)
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete import: %w", err)
	}
	return nil
}

func (s *RedisStore) put(ctx context.Context, imp *Import) error {
	payload, err := json.Marshal(imp)
	if err != nil {
		return fmt.Errorf("encode import: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(imp.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store import: %w", err)
	}
	return nil
}

// Ensure RedisStore implements Store at compile time.
var _ Store = (*RedisStore)(nil)
