package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/atelier-api/internal/domain/composer"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
)

const (
	keyPrefix = "atelier:draft:"
	// submitGuardTTL bounds how long a crashed submit can block a draft.
	submitGuardTTL = 2 * time.Minute
)

// RedisStore is a DraftRepository backed by redis. Each draft is one JSON
// string key with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisClient opens a client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

var _ domainRepo.DraftRepository = (*RedisStore)(nil)

// updateScript writes KEYS[1] only when it exists and the submit guard
// KEYS[2] is not held. Returns -1 when guarded, 0 when missing, 1 on write.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return -1
end
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

func draftKey(id string) string { return keyPrefix + id }

func guardKey(id string) string { return keyPrefix + id + ":submitting" }

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*composer.Draft, error) {
	val, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var d composer.Draft
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, draft *composer.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(draft.ID), payload, s.ttl).Err()
}

func (s *RedisStore) Update(ctx context.Context, draft *composer.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	res, err := updateScript.Run(ctx, s.client,
		[]string{draftKey(draft.ID), guardKey(draft.ID)},
		payload, s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return err
	}
	switch res {
	case -1:
		return domainRepo.ErrDraftSubmitting
	case 0:
		return domainRepo.ErrDraftNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKey(id), guardKey(id)).Err()
}

func (s *RedisStore) AcquireSubmit(ctx context.Context, id string) (bool, error) {
	return s.client.SetNX(ctx, guardKey(id), 1, submitGuardTTL).Result()
}

func (s *RedisStore) ReleaseSubmit(ctx context.Context, id string) error {
	return s.client.Del(ctx, guardKey(id)).Err()
}
