package memory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, DefaultCaps()), mr
}

func TestNewRedisStorePanicsOnNilClient(t *testing.T) {
	assert.Panics(t, func() { NewRedisStore(nil, DefaultCaps()) })
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	r, err := store.GetOrCreate(ctx, "abc123")
	require.NoError(t, err)
	r.AppendMessage(RolePeer, "hey", "opening")
	r.Profile.Location = "Denver"
	require.NoError(t, store.Save(ctx, r))

	loaded, err := store.GetOrCreate(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Denver", loaded.Profile.Location)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "hey", loaded.Messages[0].Text)
}

func TestRedisStoreMissingKeyIsFresh(t *testing.T) {
	store, _ := newTestRedisStore(t)

	r, err := store.GetOrCreate(context.Background(), "never_saved")
	require.NoError(t, err)
	assert.Equal(t, "never_saved", r.IdentityID)
	assert.Empty(t, r.Messages)
}

func TestRedisStoreCorruptValueIsFresh(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Set(recordKey("abc123"), "{not json")

	r, err := store.GetOrCreate(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", r.IdentityID)
	assert.Empty(t, r.Messages)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	r, _ := store.GetOrCreate(ctx, "abc123")
	require.NoError(t, store.Save(ctx, r))

	require.NoError(t, store.Delete(ctx, "abc123"))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreListSorted(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"ccc", "aaa", "bbb"} {
		r, _ := store.GetOrCreate(ctx, id)
		require.NoError(t, store.Save(ctx, r))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, ids)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
