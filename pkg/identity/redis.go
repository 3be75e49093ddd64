package identity

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/payrollguard/pkg/claims"
)

// DefaultRedisKeyPrefix namespaces metadata keys.
const DefaultRedisKeyPrefix = "identity:metadata:"

// RedisStore keeps each user's metadata as one JSON value.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore creates a store. An empty prefix selects DefaultRedisKeyPrefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// GetMetadata returns the stored metadata or the zero value when none exists.
func (s *RedisStore) GetMetadata(ctx context.Context, userID string) (claims.Metadata, error) {
	if userID == "" {
		return claims.Metadata{}, ErrEmptyUserID
	}
	data, err := s.client.Get(ctx, s.prefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return claims.Metadata{}, nil
	}
	if err != nil {
		return claims.Metadata{}, errors.Join(ErrProviderRequest, err)
	}
	var m claims.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return claims.Metadata{}, errors.Join(ErrInvalidMetadata, err)
	}
	return m, nil
}

// SetMetadata overwrites the user's metadata with a single SET.
func (s *RedisStore) SetMetadata(ctx context.Context, userID string, m claims.Metadata) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Join(ErrInvalidMetadata, err)
	}
	if err := s.client.Set(ctx, s.prefix+userID, data, 0).Err(); err != nil {
		return errors.Join(ErrProviderRequest, err)
	}
	return nil
}
