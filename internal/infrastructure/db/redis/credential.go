package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// CredentialStore keeps the bearer credential under a single Redis key.
// Key format: <prefix>:<key>
type CredentialStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
	ttl     time.Duration
}

// NewCredentialStore creates a store for key. A ttl of zero keeps the
// credential until it is cleared; the token carries its own expiry.
func NewCredentialStore(client *redis.Client, key string, ttl time.Duration) *CredentialStore {
	return &CredentialStore{
		client:  client,
		key:     "storefront:" + key,
		timeout: defaultTimeout,
		ttl:     ttl,
	}
}

func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if v == "" {
		return "", domain.ErrNoCredential
	}
	return v, nil
}

func (s *CredentialStore) Save(ctx context.Context, credential string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, credential, s.ttl).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable, for readiness checks.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
