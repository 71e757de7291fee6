package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/coreybb/roster/models"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// UserCache holds denormalized copies of user records in Redis, keyed by the
// storage-assigned identifier. Entries are not authoritative; the database is.
type UserCache struct {
	client *redis.Client
}

func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// SetUser writes the user's serialized record under its identifier key.
// Entries never expire; last write wins.
func (c *UserCache) SetUser(ctx context.Context, user *models.User) error {
	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user %d for cache: %w", user.ID, err)
	}
	if err := c.client.Set(ctx, userKey(user.ID), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to cache user %d: %w", user.ID, err)
	}
	return nil
}

// GetUser reads a cached user record. It returns redis.Nil (wrapped) when no
// entry exists for the identifier.
func (c *UserCache) GetUser(ctx context.Context, id int64) (*models.User, error) {
	value, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached user %d: %w", id, err)
	}
	var user models.User
	if err := json.Unmarshal(value, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user %d: %w", id, err)
	}
	return &user, nil
}

func userKey(id int64) string {
	return userKeyPrefix + strconv.FormatInt(id, 10)
}
