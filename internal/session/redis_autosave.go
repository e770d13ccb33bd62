package session

import (
	"context"
	"time"

	redisclient "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/redis"
	"github.com/google/uuid"
)

type designSessionStore interface {
	SaveDesignSession(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error
	LoadDesignSession(ctx context.Context, sessionID string) ([]byte, error)
	DeleteDesignSession(ctx context.Context, sessionID string) error
}

// RedisAutosaver keeps session snapshots in Redis with a sliding TTL.
type RedisAutosaver struct {
	store designSessionStore
	ttl   time.Duration
}

// NewRedisAutosaver wraps a redis client.
func NewRedisAutosaver(store designSessionStore, ttl time.Duration) *RedisAutosaver {
	return &RedisAutosaver{store: store, ttl: ttl}
}

func (r *RedisAutosaver) Save(ctx context.Context, sessionID uuid.UUID, payload []byte) error {
	return r.store.SaveDesignSession(ctx, sessionID.String(), payload, r.ttl)
}

func (r *RedisAutosaver) Load(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	payload, err := r.store.LoadDesignSession(ctx, sessionID.String())
	if err != nil {
		if redisclient.IsMissing(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return payload, nil
}

func (r *RedisAutosaver) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return r.store.DeleteDesignSession(ctx, sessionID.String())
}
