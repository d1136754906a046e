// Package lock provides short-lived mutual exclusion keyed by string, backed by
// Redis SET NX with an owner token. Without a Redis client it falls back to an
// in-process lock table, which is enough for a single API instance.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock: already held")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.Mutex
	local map[string]string
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: client, ttl: ttl, local: make(map[string]string)}
}

// Lease is a held lock. Release is idempotent.
type Lease struct {
	locker *Locker
	key    string
	token  string
	once   sync.Once
}

// SettlementKey scopes the payroll settlement critical section to one employee.
func SettlementKey(companyID, employeeID string) string {
	return fmt.Sprintf("payroll:settlement:%s:%s:lock", companyID, employeeID)
}

// InventoryKey scopes stock mutations to one item.
func InventoryKey(companyID, itemID string) string {
	return fmt.Sprintf("inventory:item:%s:%s:lock", companyID, itemID)
}

// Acquire takes key or fails fast with ErrNotAcquired; it does not wait.
func (l *Locker) Acquire(ctx context.Context, key string) (*Lease, error) {
	token := uuid.NewString()

	if l.client == nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, held := l.local[key]; held {
			return nil, ErrNotAcquired
		}
		l.local[key] = token
		return &Lease{locker: l, key: key, token: token}, nil
	}

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &Lease{locker: l, key: key, token: token}, nil
}

// Release frees the lease if it is still owned by this holder. A lease that
// expired and was taken by someone else is left alone.
func (le *Lease) Release(ctx context.Context) error {
	var err error
	le.once.Do(func() {
		l := le.locker
		if l.client == nil {
			l.mu.Lock()
			if l.local[le.key] == le.token {
				delete(l.local, le.key)
			}
			l.mu.Unlock()
			return
		}
		err = releaseScript.Run(ctx, l.client, []string{le.key}, le.token).Err()
	})
	return err
}
