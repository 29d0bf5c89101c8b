package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/audit"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/idgen"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/metrics"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/repository"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/pubsub"
)

// messageServiceImpl implements MessageService interface.
type messageServiceImpl struct {
	rooms    repository.RoomRepository
	messages repository.MessageRepository
	ids      idgen.Generator
	opts     options
}

// NewMessageService creates a new message service. WithCache is ignored:
// membership is always checked against the store.
func NewMessageService(
	rooms repository.RoomRepository,
	messages repository.MessageRepository,
	ids idgen.Generator,
	opts ...Option,
) MessageService {
	return &messageServiceImpl{
		rooms:    rooms,
		messages: messages,
		ids:      ids,
		opts:     buildOptions(opts),
	}
}

// SendMessage stores a message from the caller, who must be a room member.
func (s *messageServiceImpl) SendMessage(ctx context.Context, callerID string, req *domain.SendMessageRequest) (*domain.Message, error) {
	id, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	msg := &domain.Message{
		ID:        id,
		Message:   req.Message,
		SenderID:  callerID,
		RoomID:    req.RoomID,
		CreatedAt: s.opts.now(),
	}

	err = s.messages.Create(ctx, msg, func(room *domain.Room) error {
		if !room.HasMember(callerID) {
			return denyMember()
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, roomNotFound(req.RoomID)
		case IsPermissionDenied(err):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to create message: %w", err)
		}
	}

	metrics.MessagesSent.Inc()
	audit.Log(ctx, audit.ActionSendMessage, callerID, msg.ID, "message sent")
	s.opts.events.Emit(ctx, pubsub.EventMessageSent, msg.RoomID, callerID, msg)
	return msg, nil
}

// ListMessages returns the room's messages in send order. Members only.
func (s *messageServiceImpl) ListMessages(ctx context.Context, callerID, roomID string) ([]domain.Message, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(callerID) {
		return nil, denyMember()
	}

	messages, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes a message. Only its sender may do so.
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, callerID, messageID string) error {
	msg, err := s.messages.Delete(ctx, messageID, func(msg *domain.Message) error {
		if msg.SenderID != callerID {
			return denySender()
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			return withMessage(ErrMessageNotFound, "couldn't delete a message with id=%s. message not found", messageID)
		case IsPermissionDenied(err):
			return err
		default:
			return fmt.Errorf("failed to delete message: %w", err)
		}
	}

	metrics.MessagesDeleted.Inc()
	audit.LogWithDetail(ctx, audit.ActionDeleteMessage, callerID, msg.ID, msg.RoomID, "message deleted")
	s.opts.events.Emit(ctx, pubsub.EventMessageDeleted, msg.RoomID, callerID, map[string]string{"message_id": msg.ID})
	return nil
}

// DeleteMessageAt resolves index against the room's messages in send order
// and deletes that message by id.
func (s *messageServiceImpl) DeleteMessageAt(ctx context.Context, callerID, roomID string, index int) error {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return withMessage(ErrRoomNotFound, "couldn't delete a message with id=%s. message not found", roomID)
		}
		return fmt.Errorf("failed to get room: %w", err)
	}

	messages, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}
	if index < 0 || index >= len(messages) {
		return ErrMessageIndexOutOfRange
	}

	target := messages[index]
	if target.SenderID != callerID {
		return denySender()
	}
	return s.DeleteMessage(ctx, callerID, target.ID)
}

func (s *messageServiceImpl) loadRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, roomNotFound(roomID)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func roomNotFound(roomID string) error {
	return withMessage(ErrRoomNotFound, "A room with id=%s was not found.", roomID)
}

func denyMember() error {
	metrics.AuthorizationDenied.WithLabelValues("not_member").Inc()
	return ErrNotRoomMember
}

func denySender() error {
	metrics.AuthorizationDenied.WithLabelValues("not_sender").Inc()
	return ErrNotMessageSender
}
