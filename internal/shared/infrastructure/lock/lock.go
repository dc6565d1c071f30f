// Package lock provides short-lived mutual exclusion keyed by string,
// so only one worker generates a given report at a time.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Releaser gives a held lock back.
type Releaser func(ctx context.Context)

// Locker acquires a lock for key that expires after ttl. ok is false when
// another holder owns the key.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release Releaser, ok bool)
}

const keyPrefix = "cmt:lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker uses SET NX PX with a random token. When Redis is
// unreachable it fails open: work proceeds rather than stalling.
type RedisLocker struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisLocker creates a locker on rdb.
func NewRedisLocker(rdb *redis.Client, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{rdb: rdb, logger: logger}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Releaser, bool) {
	token := newToken()
	full := keyPrefix + key

	ok, err := l.rdb.SetNX(ctx, full, token, ttl).Result()
	if err != nil {
		l.logger.WarnContext(ctx, "lock backend unavailable, proceeding without lock", "key", key, "error", err)
		return func(context.Context) {}, true
	}
	if !ok {
		return nil, false
	}
	return func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.rdb, []string{full}, token).Err(); err != nil {
			l.logger.WarnContext(ctx, "failed to release lock", "key", key, "error", err)
		}
	}, true
}

// MemoryLocker is the single-process fallback used when no Redis is configured.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryHold
	clock func() time.Time
}

type memoryHold struct {
	token   string
	expires time.Time
}

// NewMemoryLocker creates an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryHold), clock: time.Now}
}

func (l *MemoryLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (Releaser, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if h, ok := l.held[key]; ok && now.Before(h.expires) {
		return nil, false
	}
	token := newToken()
	l.held[key] = memoryHold{token: token, expires: now.Add(ttl)}

	return func(context.Context) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if h, ok := l.held[key]; ok && h.token == token {
			delete(l.held, key)
		}
	}, true
}

func newToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
