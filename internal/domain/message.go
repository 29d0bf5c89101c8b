package domain

import "time"

// Message is a chat message stored independently of its room. RoomID is a
// back-reference used for filtering only.
type Message struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	SenderID  string    `json:"sender_id"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageRequest represents a send message request.
type SendMessageRequest struct {
	Message string `json:"message"`
	RoomID  string `json:"room_id" binding:"required"`
}
