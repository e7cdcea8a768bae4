package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mindtrace/mindtrace/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for cached identities.
	identityCachePrefix = "session:identity:"
)

// CachedIdentity is the identity record stored in Redis. The LoggedIn
// flag and the identity fields are written and cleared together, never
// independently.
type CachedIdentity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	LoggedIn bool   `json:"logged_in"`
}

// GetIdentity retrieves a cached identity by session token hash.
// Returns nil on a cache miss; a corrupted record is treated as a miss.
func (c *Cache) GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	key := identityCachePrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil //nolint:nilerr
	}

	if !cached.LoggedIn {
		return nil, nil
	}

	return &model.Identity{
		UserID: cached.UserID,
		Email:  cached.Email,
		Name:   cached.Name,
	}, nil
}

// SetIdentity writes through an identity record after a successful
// auth-related response.
func (c *Cache) SetIdentity(ctx context.Context, tokenHash string, identity *model.Identity, ttl time.Duration) error {
	key := identityCachePrefix + tokenHash

	cached := CachedIdentity{
		UserID:   identity.UserID,
		Email:    identity.Email,
		Name:     identity.Name,
		LoggedIn: true,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeleteIdentity clears a cached identity. Used on logout and when a
// session refresh fails.
func (c *Cache) DeleteIdentity(ctx context.Context, tokenHash string) error {
	key := identityCachePrefix + tokenHash
	return c.client.Del(ctx, key).Err()
}
