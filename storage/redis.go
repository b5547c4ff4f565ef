package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis persists the slot in a Redis key. Intended for backend-for-frontend
// deployments where the session core runs server-side and the slot must
// survive instance restarts.
type Redis struct {
	client  redis.UniversalClient
	key     string
	ttl     time.Duration
	timeout time.Duration
}

// NewRedis builds a Redis slot under key. A zero ttl stores the value without
// expiry; otherwise every save refreshes it.
func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{
		client:  client,
		key:     key,
		ttl:     ttl,
		timeout: 2 * time.Second,
	}
}

// Load implements session.Repository.
func (r *Redis) Load() ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save implements session.Repository.
func (r *Redis) Save(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}
