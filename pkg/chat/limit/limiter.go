package limit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitExceededError is returned when the user has spent their daily turn
// allowance. It maps to a 429 at the HTTP boundary.
type LimitExceededError struct {
	Limit   int
	ResetAt time.Time
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily turn limit of %d reached, resets at %s", e.Limit, e.ResetAt.Format(time.RFC3339))
}

// Limiter counts chat turns per user per UTC day in redis.
type Limiter struct {
	rdb        *redis.Client
	dailyLimit int
}

func NewLimiter(rdb *redis.Client, dailyLimit int) *Limiter {
	return &Limiter{
		rdb:        rdb,
		dailyLimit: dailyLimit,
	}
}

func dayKey(userId string, now time.Time) string {
	return fmt.Sprintf("chat:turns:%s:%s", userId, now.UTC().Format("2006-01-02"))
}

// Consume records one turn and errors with LimitExceededError once the daily
// allowance is spent. A zero or negative limit disables limiting. When redis
// is unreachable the turn is allowed; availability beats strict accounting
// here.
func (l *Limiter) Consume(ctx context.Context, userId string) error {
	if l.dailyLimit <= 0 || l.rdb == nil {
		return nil
	}

	now := time.Now()
	key := dayKey(userId, now)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		// First turn of the day owns setting the expiry
		l.rdb.Expire(ctx, key, 48*time.Hour)
	}

	if count > int64(l.dailyLimit) {
		midnight := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		return &LimitExceededError{Limit: l.dailyLimit, ResetAt: midnight}
	}
	return nil
}

// Remaining reports how many turns the user has left today.
func (l *Limiter) Remaining(ctx context.Context, userId string) (int, error) {
	if l.dailyLimit <= 0 || l.rdb == nil {
		return -1, nil
	}
	count, err := l.rdb.Get(ctx, dayKey(userId, time.Now())).Int()
	if err != nil {
		if err == redis.Nil {
			return l.dailyLimit, nil
		}
		return 0, err
	}
	remaining := l.dailyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
