package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*Versioned, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVersioned(client, "snapshot", time.Minute), mr
}

func TestFetchJSON_LoadsOnceThenHits(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return doc{Name: "acme", Count: calls}, nil
	}

	key, err := c.Key(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, "snapshot:company-1:1", key)

	var first, second doc
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestReplace_StoresUnderNewVersion(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	oldKey, err := c.Key(ctx, "company-1")
	require.NoError(t, err)
	var got doc
	require.NoError(t, c.FetchJSON(ctx, oldKey, &got, func(context.Context) (interface{}, error) {
		return doc{Name: "v1"}, nil
	}))

	ver, err := c.Replace(ctx, "company-1", doc{Name: "v2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)

	newKey, err := c.Key(ctx, "company-1")
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, newKey)

	failLoader := func(context.Context) (interface{}, error) {
		return nil, errors.New("should not load")
	}
	var current, previous doc
	require.NoError(t, c.FetchJSON(ctx, newKey, &current, failLoader))
	require.NoError(t, c.FetchJSON(ctx, oldKey, &previous, failLoader))
	assert.Equal(t, "v2", current.Name)
	assert.Equal(t, "v1", previous.Name)
}

func TestBump_ScopesAreIndependent(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.Bump(ctx, "company-1")
	require.NoError(t, err)

	v1, err := c.Version(ctx, "company-1")
	require.NoError(t, err)
	v2, err := c.Version(ctx, "company-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v1)
	assert.Equal(t, int64(1), v2)
}

func TestFetchJSON_LoaderErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key, err := c.Key(ctx, "company-1")
	require.NoError(t, err)

	var got doc
	err = c.FetchJSON(ctx, key, &got, func(context.Context) (interface{}, error) {
		return nil, errors.New("store down")
	})
	require.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestNilCacheFallsBackToLoader(t *testing.T) {
	var c *Versioned
	ctx := context.Background()

	key, err := c.Key(ctx, "company-1")
	require.NoError(t, err)

	var got doc
	require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (interface{}, error) {
		return doc{Name: "direct"}, nil
	}))
	assert.Equal(t, "direct", got.Name)

	ver, err := c.Replace(ctx, "company-1", got)
	require.NoError(t, err)
	assert.Zero(t, ver)
}

func TestLookupJSON(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got doc
	found, err := c.LookupJSON(ctx, "snapshot:company-1:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	ver, err := c.Replace(ctx, "company-1", doc{Name: "acme", Count: 3})
	require.NoError(t, err)
	key, err := c.Key(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, "snapshot:company-1:2", key)
	assert.EqualValues(t, 2, ver)

	found, err = c.LookupJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Name: "acme", Count: 3}, got)

	var disabled *Versioned
	found, err = disabled.LookupJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
