package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/database"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
)

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

var _ RoomRepository = (*GormRoomRepository)(nil)

// NewGormRoomRepository creates a new GORM-based room repository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Create creates a new room.
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	l := log.Ctx(ctx)

	model := domain.RoomToModel(room)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		l.Error().Err(err).Str(log.FieldRoomID, room.ID).Msg("failed to create room in db")
		return err
	}

	l.Debug().Str(log.FieldRoomID, room.ID).Msg("room created in db")
	return nil
}

// GetByID retrieves a room by ID.
func (r *GormRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	l := log.Ctx(ctx)

	var model domain.RoomModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldRoomID, id).Msg("failed to get room by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByMember scans every room and keeps those listing userID as a member.
// Membership lives in a JSON column, so the filter runs here rather than in SQL.
func (r *GormRoomRepository) ListByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	l := log.Ctx(ctx)

	var models []domain.RoomModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to scan rooms")
		return nil, err
	}

	rooms := make([]domain.Room, 0)
	for i := range models {
		if models[i].Members.Contains(userID) {
			rooms = append(rooms, *models[i].ToDomain())
		}
	}
	return rooms, nil
}

// Update applies mutate to the stored room inside a transaction.
func (r *GormRoomRepository) Update(ctx context.Context, id string, mutate RoomCheck) (*domain.Room, error) {
	l := log.Ctx(ctx)

	var updated *domain.Room
	var rejected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := r.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		owner, created := room.OwnerID, room.CreatedAt
		if err := mutate(room); err != nil {
			rejected = true
			return err
		}

		// Identity fields are not the mutator's to change.
		model := domain.RoomToModel(room)
		model.ID = id
		model.OwnerID = owner
		model.CreatedAt = created
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		updated = model.ToDomain()
		return nil
	})
	if err != nil {
		if !rejected && !errors.Is(err, ErrRoomNotFound) {
			l.Error().Err(err).Str(log.FieldRoomID, id).Msg("failed to update room in db")
		}
		return nil, err
	}

	l.Debug().Str(log.FieldRoomID, id).Msg("room updated in db")
	return updated, nil
}

// Delete removes a room and cascades to its messages in one transaction.
func (r *GormRoomRepository) Delete(ctx context.Context, id string, check RoomCheck) (*domain.Room, error) {
	l := log.Ctx(ctx)

	var deleted *domain.Room
	var purged int64
	var rejected bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := r.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := check(room); err != nil {
			rejected = true
			return err
		}

		res := tx.Where("room_id = ?", id).Delete(&domain.MessageModel{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected

		if err := tx.Where("id = ?", id).Delete(&domain.RoomModel{}).Error; err != nil {
			return err
		}
		deleted = room
		return nil
	})
	if err != nil {
		if !rejected && !errors.Is(err, ErrRoomNotFound) {
			l.Error().Err(err).Str(log.FieldRoomID, id).Msg("failed to delete room in db")
		}
		return nil, err
	}

	l.Debug().Str(log.FieldRoomID, id).Int64("messages_deleted", purged).Msg("room deleted in db")
	return deleted, nil
}

func (r *GormRoomRepository) loadForUpdate(tx *gorm.DB, id string) (*domain.Room, error) {
	return loadRoom(lockRow(tx), id)
}

func loadRoom(tx *gorm.DB, id string) (*domain.Room, error) {
	var model domain.RoomModel
	if err := tx.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// lockRow adds FOR UPDATE where the dialect supports it.
func lockRow(tx *gorm.DB) *gorm.DB {
	if database.SupportsRowLocking(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
