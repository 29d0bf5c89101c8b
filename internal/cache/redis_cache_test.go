package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/config"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisRoomCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Dial(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	c := NewRedisRoomCache(client, "chatroom", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisRoomCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	room := &domain.Room{
		ID:        "r1",
		Title:     "general",
		OwnerID:   "alice",
		Members:   []string{"alice", "bob", "bob"},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, room, 0))
	assert.True(t, mr.Exists("chatroom:room:r1"))
	assert.Equal(t, time.Minute, mr.TTL("chatroom:room:r1"))

	got, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, room.Members, got.Members)
	assert.Equal(t, "general", got.Title)
	assert.True(t, room.CreatedAt.Equal(got.CreatedAt))
	assert.Nil(t, got.UpdatedAt)

	require.NoError(t, c.Invalidate(ctx, "r1", "never-cached"))
	_, err = c.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestRedisRoomCacheRejectsStaleVersion(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v0, err := c.Version(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, v0)

	// A mutation lands between the reader's version read and its Set.
	require.NoError(t, c.Invalidate(ctx, "r1"))

	err = c.Set(ctx, &domain.Room{ID: "r1", Title: "old"}, v0)
	assert.ErrorIs(t, err, ErrStaleVersion)
	assert.False(t, mr.Exists(c.Key("r1")))

	v1, err := c.Version(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, versionTTL, mr.TTL(c.Key("r1")+":v"))

	require.NoError(t, c.Set(ctx, &domain.Room{ID: "r1", Title: "new"}, v1))
	got, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
}

func TestRedisRoomCacheWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Dial(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	c := NewRedisRoomCache(client, "chatroom", 0)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), &domain.Room{ID: "r1"}, 0))
	assert.True(t, mr.Exists("chatroom:room:r1"))
	assert.Zero(t, mr.TTL("chatroom:room:r1"))
}

func TestRedisRoomCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.Room{ID: "r1"}, 0))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisRoomCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(c.Key("r1"), "not json"))

	_, err := c.Get(context.Background(), "r1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestDialUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Dial(config.RedisConfig{Address: addr})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestNoopRoomCacheAlwaysMisses(t *testing.T) {
	var c RoomCache = NoopRoomCache{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &domain.Room{ID: "r1"}, 7))
	v, err := c.Version(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, v)
	_, err = c.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
