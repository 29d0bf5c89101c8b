package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
)

// RoomCheck inspects (and may modify) a room loaded inside a repository
// transaction. Returning an error aborts the transaction unchanged.
type RoomCheck func(room *domain.Room) error

// MessageCheck inspects a message loaded inside a repository transaction.
type MessageCheck func(msg *domain.Message) error

// RoomRepository defines the interface for room data persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	// ListByMember returns rooms whose member list contains userID.
	ListByMember(ctx context.Context, userID string) ([]domain.Room, error)
	// Update loads the room, applies mutate and persists the result atomically.
	Update(ctx context.Context, id string, mutate RoomCheck) (*domain.Room, error)
	// Delete loads the room, runs check, then removes the room together with
	// every message that references it.
	Delete(ctx context.Context, id string, check RoomCheck) (*domain.Room, error)
}

// MessageRepository defines the interface for message data persistence.
type MessageRepository interface {
	// Create inserts msg after check accepts its room; both happen in one
	// transaction so a message never outlives a concurrent room delete.
	Create(ctx context.Context, msg *domain.Message, check RoomCheck) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	// ListByRoom returns the room's messages in send order.
	ListByRoom(ctx context.Context, roomID string) ([]domain.Message, error)
	Delete(ctx context.Context, id string, check MessageCheck) (*domain.Message, error)
}
