package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/config"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

const (
	dialTimeout = 5 * time.Second
	// versionTTL bounds how long an idle room's version key lingers. It only
	// has to outlive a single store read.
	versionTTL = 24 * time.Hour
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds ARGV[2].
// ARGV[3] is the entry TTL in milliseconds, 0 for none.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if current == false then current = '0' end
if current ~= ARGV[2] then return 0 end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

var _ RoomCache = (*RedisRoomCache)(nil)

// Dial opens a Redis client and checks it answers PING.
func Dial(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisRoomCache stores rooms as JSON strings under <prefix>:room:<id> and
// their versions under <prefix>:room:<id>:v.
type RedisRoomCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisRoomCache wraps client. Entries expire after ttl; zero keeps them
// until invalidated.
func NewRedisRoomCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisRoomCache {
	return &RedisRoomCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Key returns the Redis key holding roomID.
func (c *RedisRoomCache) Key(roomID string) string {
	return c.prefix + ":room:" + roomID
}

func (c *RedisRoomCache) versionKey(roomID string) string {
	return c.Key(roomID) + ":v"
}

func (c *RedisRoomCache) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	data, err := c.client.Get(ctx, c.Key(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get room %s: %w", roomID, err)
	}

	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decode cached room %s: %w", roomID, err)
	}
	return &room, nil
}

// Version returns the room's current version, 0 if it was never invalidated.
func (c *RedisRoomCache) Version(ctx context.Context, roomID string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(roomID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version %s: %w", roomID, err)
	}
	return v, nil
}

func (c *RedisRoomCache) Set(ctx context.Context, room *domain.Room, version int64) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}

	keys := []string{c.Key(room.ID), c.versionKey(room.ID)}
	stored, err := setIfVersion.Run(ctx, c.client, keys,
		data, strconv.FormatInt(version, 10), c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis set room %s: %w", room.ID, err)
	}
	if stored == 0 {
		return ErrStaleVersion
	}
	return nil
}

// Invalidate bumps the version of every room in roomIDs and drops their
// entries, atomically per call.
func (c *RedisRoomCache) Invalidate(ctx context.Context, roomIDs ...string) error {
	if len(roomIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range roomIDs {
			pipe.Incr(ctx, c.versionKey(id))
			pipe.Expire(ctx, c.versionKey(id), versionTTL)
			pipe.Del(ctx, c.Key(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate rooms: %w", err)
	}
	return nil
}

func (c *RedisRoomCache) Close() error {
	return c.client.Close()
}
