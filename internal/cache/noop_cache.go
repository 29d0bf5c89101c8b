package cache

import (
	"context"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

// NoopRoomCache always misses. Used when caching is disabled.
type NoopRoomCache struct{}

func (NoopRoomCache) Get(context.Context, string) (*domain.Room, error) { return nil, ErrCacheMiss }
func (NoopRoomCache) Version(context.Context, string) (int64, error)     { return 0, nil }
func (NoopRoomCache) Set(context.Context, *domain.Room, int64) error     { return nil }
func (NoopRoomCache) Invalidate(context.Context, ...string) error        { return nil }
func (NoopRoomCache) Close() error                                       { return nil }
