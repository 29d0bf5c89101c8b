package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/audit"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/cache"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/event"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/idgen"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/metrics"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/repository"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/pubsub"
)

// Option configures optional service collaborators.
type Option func(*options)

type options struct {
	now    func() time.Time
	cache  cache.RoomCache
	events *event.Emitter
}

// WithClock overrides the time source. Defaults to time.Now in UTC.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCache enables read-through caching of GetRoom.
func WithCache(c cache.RoomCache) Option {
	return func(o *options) { o.cache = c }
}

// WithEvents publishes an event after every committed mutation.
func WithEvents(e *event.Emitter) Option {
	return func(o *options) { o.events = e }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		cache: cache.NoopRoomCache{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.events == nil {
		o.events = event.NewEmitter(nil)
	}
	return o
}

// roomServiceImpl implements RoomService interface.
type roomServiceImpl struct {
	repo  repository.RoomRepository
	ids   idgen.Generator
	opts  options
	group singleflight.Group
}

// NewRoomService creates a new room service.
func NewRoomService(repo repository.RoomRepository, ids idgen.Generator, opts ...Option) RoomService {
	return &roomServiceImpl{
		repo: repo,
		ids:  ids,
		opts: buildOptions(opts),
	}
}

// ListRooms returns every room the caller is a member of.
func (s *roomServiceImpl) ListRooms(ctx context.Context, callerID string) ([]domain.Room, error) {
	rooms, err := s.repo.ListByMember(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// GetRoom retrieves a room by ID, consulting the cache first. Concurrent
// misses for the same room share one store read, which outlives the
// cancellation of whichever caller started it.
func (s *roomServiceImpl) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	result, err, _ := s.group.Do(roomID, func() (interface{}, error) {
		return s.fetchWithCache(context.WithoutCancel(ctx), roomID)
	})
	if err != nil {
		return nil, err
	}

	shared, ok := result.(*domain.Room)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}

	// Callers sharing a flight must not share the members slice.
	room := *shared
	room.Members = append([]string(nil), shared.Members...)
	return &room, nil
}

func (s *roomServiceImpl) fetchWithCache(ctx context.Context, roomID string) (*domain.Room, error) {
	l := log.Ctx(ctx)

	cached, err := s.opts.cache.Get(ctx, roomID)
	if err == nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("cache get error")
	}

	// The version must be read before the store so a mutation committed
	// during the load makes the Set below a no-op.
	version, verr := s.opts.cache.Version(ctx, roomID)
	if verr != nil {
		l.Warn().Err(verr).Str(log.FieldRoomID, roomID).Msg("cache version error")
	}

	room, err := s.repo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, roomNotFound(roomID)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if verr != nil {
		return room, nil
	}
	if err := s.opts.cache.Set(ctx, room, version); err != nil {
		if errors.Is(err, cache.ErrStaleVersion) {
			l.Debug().Str(log.FieldRoomID, roomID).Msg("room changed during load, not caching")
		} else {
			l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("cache set error")
		}
	}
	return room, nil
}

// CreateRoom creates a room owned by the caller, who becomes its first member.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, callerID string, req *domain.RoomPayload) (*domain.Room, error) {
	id, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate room id: %w", err)
	}

	room := &domain.Room{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Avatar:      req.Avatar,
		OwnerID:     callerID,
		Members:     []string{callerID},
		CreatedAt:   s.opts.now(),
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	metrics.RoomsCreated.Inc()
	audit.Log(ctx, audit.ActionCreateRoom, callerID, room.ID, "room created")
	s.opts.events.Emit(ctx, pubsub.EventRoomCreated, room.ID, callerID, room)
	return room, nil
}

// UpdateRoom overwrites the room details. Only the owner may do so.
func (s *roomServiceImpl) UpdateRoom(ctx context.Context, callerID, roomID string, req *domain.RoomPayload) (*domain.Room, error) {
	ctx = log.WithFields(ctx, log.FieldRoomID, roomID)
	now := s.opts.now()

	room, err := s.repo.Update(ctx, roomID, func(room *domain.Room) error {
		if !room.IsOwner(callerID) {
			return denyOwner("You are not authorized to update the room.")
		}
		room.ApplyDetails(req, now)
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, "Couldn't update a room with id=%s. Room not found.", roomID)
	}

	s.invalidate(ctx, roomID)
	audit.Log(ctx, audit.ActionUpdateRoom, callerID, roomID, "room updated")
	s.opts.events.Emit(ctx, pubsub.EventRoomUpdated, roomID, callerID, room)
	return room, nil
}

// AddMember appends memberID to the room. Repeated additions are kept.
func (s *roomServiceImpl) AddMember(ctx context.Context, callerID, roomID, memberID string) (*domain.Room, error) {
	ctx = log.WithFields(ctx, log.FieldRoomID, roomID, log.FieldMemberID, memberID)
	room, err := s.repo.Update(ctx, roomID, func(room *domain.Room) error {
		if !room.IsOwner(callerID) {
			return denyOwner(ErrNotRoomOwner.Error())
		}
		room.Members = append(room.Members, memberID)
		return nil
	})
	if err != nil {
		return nil, s.mutationError(err, "Couldn't update a room with id=%s. Room not found.", roomID)
	}

	s.invalidate(ctx, roomID)
	metrics.MembersAdded.Inc()
	audit.Log(ctx, audit.ActionAddMember, callerID, roomID, "member added")
	s.opts.events.Emit(ctx, pubsub.EventMemberAdded, roomID, callerID, map[string]string{"member_id": memberID})
	return room, nil
}

// DeleteRoom removes the room and every message sent to it.
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, callerID, roomID string) error {
	ctx = log.WithFields(ctx, log.FieldRoomID, roomID)
	_, err := s.repo.Delete(ctx, roomID, func(room *domain.Room) error {
		if !room.IsOwner(callerID) {
			return denyOwner("You are not authorized to delete the room.")
		}
		return nil
	})
	if err != nil {
		return s.mutationError(err, "couldn't delete a room with id=%s. Room not found", roomID)
	}

	s.invalidate(ctx, roomID)
	metrics.RoomsDeleted.Inc()
	audit.Log(ctx, audit.ActionDeleteRoom, callerID, roomID, "room deleted")
	s.opts.events.Emit(ctx, pubsub.EventRoomDeleted, roomID, callerID, nil)
	return nil
}

// mutationError maps repository failures onto service errors.
func (s *roomServiceImpl) mutationError(err error, notFound, roomID string) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return withMessage(ErrRoomNotFound, notFound, roomID)
	case IsPermissionDenied(err):
		return err
	default:
		return fmt.Errorf("failed to persist room: %w", err)
	}
}

func (s *roomServiceImpl) invalidate(ctx context.Context, roomID string) {
	if err := s.opts.cache.Invalidate(ctx, roomID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("cache invalidate error")
	}
}

func denyOwner(msg string) error {
	metrics.AuthorizationDenied.WithLabelValues("not_owner").Inc()
	return withMessage(ErrNotRoomOwner, "%s", msg)
}
