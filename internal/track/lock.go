package track

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "priceping:reconcile:lock"

// ErrRunInProgress is returned when another reconciliation run holds the
// lock.
var ErrRunInProgress = errors.New("reconciliation already running")

// lockClient is the slice of *redis.Client the guard needs.
type lockClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RunGuard serializes reconciliation runs across processes with a redis
// lock. The TTL covers a crashed holder; a finished run releases early.
type RunGuard struct {
	Client lockClient
	TTL    time.Duration
}

// Acquire takes the run lock and returns the release function. When redis
// itself is unreachable the run proceeds unguarded rather than blocking
// the schedule.
func (g *RunGuard) Acquire(ctx context.Context) (release func(), err error) {
	ok, err := g.Client.SetNX(ctx, runLockKey, "1", g.TTL).Result()
	if err != nil {
		log.Printf("[reconciler] run lock unavailable, proceeding: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		if err := g.Client.Del(context.Background(), runLockKey).Err(); err != nil {
			log.Printf("[reconciler] release run lock: %v", err)
		}
	}, nil
}
