package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func countingLoader(calls *int, names ...string) Loader {
	return func(ctx context.Context) (interface{}, error) {
		*calls++
		items := make([]item, len(names))
		for i, n := range names {
			items[i] = item{Name: n}
		}
		return items, nil
	}
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "test", time.Minute, zerolog.Nop()), mr
}

func exerciseReadThrough(t *testing.T, c ListCache) {
	ctx := context.Background()
	calls := 0

	var first []item
	require.NoError(t, c.FetchJSON(ctx, KeyUsers, &first, countingLoader(&calls, "anna", "max")))
	assert.Equal(t, []item{{"anna"}, {"max"}}, first)

	var second []item
	require.NoError(t, c.FetchJSON(ctx, KeyUsers, &second, countingLoader(&calls, "other")))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Invalidate(ctx, KeyUsers))

	var third []item
	require.NoError(t, c.FetchJSON(ctx, KeyUsers, &third, countingLoader(&calls, "lena")))
	assert.Equal(t, []item{{"lena"}}, third)
	assert.Equal(t, 2, calls)
}

func TestMemoryCache_ReadThrough(t *testing.T) {
	exerciseReadThrough(t, NewMemoryCache(time.Minute))
}

func TestRedisCache_ReadThrough(t *testing.T) {
	c, mr := newRedisCache(t)
	exerciseReadThrough(t, c)
	assert.True(t, mr.Exists("test:"+KeyUsers))
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newRedisCache(t)
	calls := 0
	var out []item

	require.NoError(t, c.FetchJSON(context.Background(), KeyRoles, &out, countingLoader(&calls, "a")))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, c.FetchJSON(context.Background(), KeyRoles, &out, countingLoader(&calls, "b")))

	assert.Equal(t, 2, calls)
	assert.Equal(t, []item{{"b"}}, out)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	var out []item
	require.NoError(t, c.FetchJSON(context.Background(), KeyRoles, &out, countingLoader(&calls, "a")))
	now = now.Add(61 * time.Second)
	require.NoError(t, c.FetchJSON(context.Background(), KeyRoles, &out, countingLoader(&calls, "b")))

	assert.Equal(t, 2, calls)
}

func TestFetchJSON_LoaderError(t *testing.T) {
	boom := errors.New("boom")
	c := NewMemoryCache(0)
	var out []item
	err := c.FetchJSON(context.Background(), KeyUsers, &out, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, c.FetchJSON(context.Background(), KeyUsers, &out, nil), ErrLoaderRequired)
}

func TestRedisCache_FallsBackWhenDown(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	calls := 0
	var out []item
	require.NoError(t, c.FetchJSON(context.Background(), KeyUsers, &out, countingLoader(&calls, "anna")))
	assert.Equal(t, []item{{"anna"}}, out)
}
