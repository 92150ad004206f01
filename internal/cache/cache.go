package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lotusnews/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix = "post:%s"
	UserKeyPrefix = "user:%s"
)

const (
	PostTTL = 30 * time.Minute
	UserTTL = 5 * time.Minute
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserKey(userID uuid.UUID) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Aside reads key into dest. On a miss (or without Redis) it calls fetch,
// which must populate dest, and stores the result for ttl. Cache failures
// never fail the read.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	if err := fetch(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uuid.UUID) {
	Invalidate(ctx, PostKey(postID))
}
