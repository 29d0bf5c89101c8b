package service

import (
	"context"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
)

// RoomService defines the interface for room business logic.
type RoomService interface {
	ListRooms(ctx context.Context, callerID string) ([]domain.Room, error)
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	CreateRoom(ctx context.Context, callerID string, req *domain.RoomPayload) (*domain.Room, error)
	UpdateRoom(ctx context.Context, callerID, roomID string, req *domain.RoomPayload) (*domain.Room, error)
	AddMember(ctx context.Context, callerID, roomID, memberID string) (*domain.Room, error)
	DeleteRoom(ctx context.Context, callerID, roomID string) error
}

// MessageService defines the interface for message business logic.
type MessageService interface {
	SendMessage(ctx context.Context, callerID string, req *domain.SendMessageRequest) (*domain.Message, error)
	ListMessages(ctx context.Context, callerID, roomID string) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, callerID, messageID string) error
	// DeleteMessageAt deletes the index-th message of the room in send order.
	DeleteMessageAt(ctx context.Context, callerID, roomID string, index int) error
}
