package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UnreadKeyPrefix = "msg:unread" // per (reader, sender) conversation counter
	UnreadTTL       = 7 * 24 * time.Hour
)

// UnreadRepository caches per-conversation unread counters. The counter is
// advisory: every method degrades to a no-op / miss when the client is not
// connected, and readers rebuild from MySQL on miss.
type UnreadRepository struct{}

func unreadKey(toID, fromID uint64) string {
	return fmt.Sprintf("%s:%d:%d", UnreadKeyPrefix, toID, fromID)
}

// Incr bumps a warm counter only. A cold key (expired or never written)
// may undercount the store, so it is left for the next read to rebuild
// rather than restarted at 1.
func (r *UnreadRepository) Incr(ctx context.Context, toID, fromID uint64) {
	if Client == nil {
		return
	}
	k := unreadKey(toID, fromID)
	if n, err := Client.Exists(ctx, k).Result(); err != nil || n == 0 {
		return
	}
	if err := Client.Incr(ctx, k).Err(); err != nil {
		return
	}
	_ = Client.Expire(ctx, k, UnreadTTL).Err()
}

func (r *UnreadRepository) Clear(ctx context.Context, toID, fromID uint64) {
	if Client == nil {
		return
	}
	_ = Client.Del(ctx, unreadKey(toID, fromID)).Err()
}

// Get returns (count, hit); miss means rebuild from the store.
func (r *UnreadRepository) Get(ctx context.Context, toID, fromID uint64) (int64, bool) {
	if Client == nil {
		return 0, false
	}
	val, err := Client.Get(ctx, unreadKey(toID, fromID)).Int64()
	if errors.Is(err, redis.Nil) || err != nil {
		return 0, false
	}
	return val, true
}

// Set backfills the counter after a store read.
func (r *UnreadRepository) Set(ctx context.Context, toID, fromID uint64, n int64) {
	if Client == nil {
		return
	}
	_ = Client.Set(ctx, unreadKey(toID, fromID), n, UnreadTTL).Err()
}
