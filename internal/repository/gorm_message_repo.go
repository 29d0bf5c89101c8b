package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

var _ MessageRepository = (*GormMessageRepository)(nil)

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create inserts a message once check has accepted the owning room. The room
// row is locked for the duration so a concurrent delete cannot strand it.
func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.Message, check RoomCheck) error {
	l := log.Ctx(ctx)

	var rejected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(lockRow(tx), msg.RoomID)
		if err != nil {
			return err
		}
		if err := check(room); err != nil {
			rejected = true
			return err
		}
		return tx.Create(domain.MessageToModel(msg)).Error
	})
	if err != nil {
		if !rejected && !errors.Is(err, ErrRoomNotFound) {
			l.Error().Err(err).Str(log.FieldRoomID, msg.RoomID).Msg("failed to create message in db")
		}
		return err
	}

	l.Debug().Str(log.FieldRoomID, msg.RoomID).Str(log.FieldMessageID, msg.ID).Msg("message created in db")
	return nil
}

// GetByID retrieves a message by ID.
func (r *GormMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	l := log.Ctx(ctx)

	var model domain.MessageModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldMessageID, id).Msg("failed to get message by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByRoom returns a room's messages ordered by send time, then id.
func (r *GormMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Message, error) {
	l := log.Ctx(ctx)

	var models []domain.MessageModel
	result := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldRoomID, roomID).Msg("failed to list messages from db")
		return nil, result.Error
	}

	messages := make([]domain.Message, len(models))
	for i, model := range models {
		messages[i] = *model.ToDomain()
	}
	return messages, nil
}

// Delete removes a message once check has accepted it.
func (r *GormMessageRepository) Delete(ctx context.Context, id string, check MessageCheck) (*domain.Message, error) {
	l := log.Ctx(ctx)

	var deleted *domain.Message
	var rejected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.MessageModel
		if err := lockRow(tx).First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		msg := model.ToDomain()
		if err := check(msg); err != nil {
			rejected = true
			return err
		}

		if err := tx.Where("id = ?", id).Delete(&domain.MessageModel{}).Error; err != nil {
			return err
		}
		deleted = msg
		return nil
	})
	if err != nil {
		if !rejected && !errors.Is(err, ErrMessageNotFound) {
			l.Error().Err(err).Str(log.FieldMessageID, id).Msg("failed to delete message in db")
		}
		return nil, err
	}

	l.Debug().Str(log.FieldMessageID, id).Msg("message deleted in db")
	return deleted, nil
}
