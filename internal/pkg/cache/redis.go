// Package cache stores versioned JSON documents in Redis.
//
// Every scope (a company id, for snapshots) has its own version counter.
// Writers never overwrite a cached document: Replace bumps the version and
// stores the new value under the new key, so readers holding the previous key
// keep seeing a consistent document until it expires.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// New connects to Redis and pings it.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// Versioned is safe for concurrent use. A nil *Versioned or one without a
// client degrades to calling the loader every time.
type Versioned struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewVersioned(client *redis.Client, prefix string, ttl time.Duration) *Versioned {
	return &Versioned{client: client, prefix: prefix, ttl: ttl}
}

func (c *Versioned) enabled() bool {
	return c != nil && c.client != nil
}

func (c *Versioned) versionKey(scope string) string {
	return strings.Join([]string{c.prefix, scope, "version"}, ":")
}

func (c *Versioned) documentKey(scope string, version int64) string {
	return fmt.Sprintf("%s:%s:%d", c.prefix, scope, version)
}

// Version returns the current version of scope, initialising it to 1.
func (c *Versioned) Version(ctx context.Context, scope string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	key := c.versionKey(scope)
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, key).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key returns the document key for the current version of scope.
func (c *Versioned) Key(ctx context.Context, scope string) (string, error) {
	if c == nil {
		return scope, nil
	}
	if c.client == nil {
		return strings.Join([]string{c.prefix, scope}, ":"), nil
	}
	ver, err := c.Version(ctx, scope)
	if err != nil {
		return "", err
	}
	return c.documentKey(scope, ver), nil
}

// FetchJSON decodes the document at key into dest, populating it with loader
// on a miss.
func (c *Versioned) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Replace stores value as the next version of scope and returns that version.
func (c *Versioned) Replace(ctx context.Context, scope string, value interface{}) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	if _, err := c.Version(ctx, scope); err != nil {
		return 0, err
	}
	ver, err := c.client.Incr(ctx, c.versionKey(scope)).Result()
	if err != nil {
		return 0, err
	}
	if err := c.client.Set(ctx, c.documentKey(scope, ver), raw, c.ttl).Err(); err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates scope without storing a document; the next FetchJSON
// reloads.
func (c *Versioned) Bump(ctx context.Context, scope string) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	if _, err := c.Version(ctx, scope); err != nil {
		return 0, err
	}
	return c.client.Incr(ctx, c.versionKey(scope)).Result()
}

// LookupJSON decodes the document at key into dest without loading on a
// miss. found is false on a miss or when caching is disabled.
func (c *Versioned) LookupJSON(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	if !c.enabled() {
		return false, nil
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}
