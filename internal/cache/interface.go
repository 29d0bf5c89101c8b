package cache

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrStaleVersion = errors.New("room changed since version was read")
)

// RoomCache holds room snapshots by id. Every room has a version that
// Invalidate bumps; Set only stores a snapshot loaded under the current
// version, so a slow reader cannot resurrect a room mutated after its load.
type RoomCache interface {
	Get(ctx context.Context, roomID string) (*domain.Room, error)
	// Version must be read before the store load whose result goes to Set.
	Version(ctx context.Context, roomID string) (int64, error)
	// Set returns ErrStaleVersion and stores nothing if version is outdated.
	Set(ctx context.Context, room *domain.Room, version int64) error
	Invalidate(ctx context.Context, roomIDs ...string) error
	Close() error
}
