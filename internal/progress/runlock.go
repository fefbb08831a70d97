package progress

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLock serializes whole-inbox import runs across hosts with a Redis
// SET NX lock. The random token plus the Lua release script make sure a
// slow holder cannot release a lock that already expired and was
// re-acquired elsewhere.
type RunLock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// NewRunLock builds a lock scoped to the given name, sharing the
// publisher's Redis connection.
func (p *Publisher) NewRunLock(name string, ttl time.Duration) *RunLock {
	b := make([]byte, 16)
	rand.Read(b)
	return &RunLock{
		client: p.client,
		key:    "import:lock:" + name,
		token:  hex.EncodeToString(b),
		ttl:    ttl,
	}
}

// Acquire returns true when this process now holds the lock.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release frees the lock if this process still owns it.
func (l *RunLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
