package domain

import (
	"time"

	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/database"
)

// RoomModel is the GORM model for rooms table.
type RoomModel struct {
	ID          string               `gorm:"type:varchar(64);primaryKey"`
	Title       string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Avatar      string               `gorm:"type:text"`
	OwnerID     string               `gorm:"type:varchar(128);index;not null"`
	Members     database.StringArray `gorm:"type:text"`
	CreatedAt   time.Time            `gorm:"index"`
	UpdatedAt   *time.Time           `gorm:"autoUpdateTime:false"`
}

// TableName specifies the table name for RoomModel.
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts RoomModel to domain Room.
func (m *RoomModel) ToDomain() *Room {
	members := make([]string, len(m.Members))
	copy(members, m.Members)
	return &Room{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Avatar:      m.Avatar,
		OwnerID:     m.OwnerID,
		Members:     members,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// RoomToModel converts domain Room to RoomModel.
func RoomToModel(r *Room) *RoomModel {
	members := make(database.StringArray, len(r.Members))
	copy(members, r.Members)
	return &RoomModel{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Avatar:      r.Avatar,
		OwnerID:     r.OwnerID,
		Members:     members,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// MessageModel is the GORM model for messages table.
type MessageModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	RoomID    string    `gorm:"type:varchar(64);index;not null"`
	SenderID  string    `gorm:"type:varchar(128);not null"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for MessageModel.
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts MessageModel to domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:        m.ID,
		Message:   m.Message,
		SenderID:  m.SenderID,
		RoomID:    m.RoomID,
		CreatedAt: m.CreatedAt,
	}
}

// MessageToModel converts domain Message to MessageModel.
func MessageToModel(msg *Message) *MessageModel {
	return &MessageModel{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
}
