package domain

import (
	"time"
)

// Confirmation texts returned by successful delete operations.
const (
	MsgRoomDeleted    = "Successfully deleted the room."
	MsgMessageDeleted = "Message deleted successfully"
)

// Room is a named, owned collection of members. Members is ordered with the
// owner first; the same principal may appear more than once.
type Room struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Avatar      string     `json:"avatar"`
	OwnerID     string     `json:"owner_id"`
	Members     []string   `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsOwner reports whether userID owns the room.
func (r *Room) IsOwner(userID string) bool {
	return r.OwnerID == userID
}

// HasMember reports whether userID appears in the member list.
func (r *Room) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ApplyDetails overwrites the owner-editable fields and stamps UpdatedAt.
// The stamp never moves backwards and never precedes CreatedAt.
func (r *Room) ApplyDetails(req *RoomPayload, now time.Time) {
	r.Title = req.Title
	r.Description = req.Description
	r.Avatar = req.Avatar

	if now.Before(r.CreatedAt) {
		now = r.CreatedAt
	}
	if r.UpdatedAt != nil && now.Before(*r.UpdatedAt) {
		now = *r.UpdatedAt
	}
	r.UpdatedAt = &now
}

// RoomPayload carries the caller-supplied room fields for create and update.
type RoomPayload struct {
	Title       string `json:"title" binding:"max=200"`
	Description string `json:"description"`
	Avatar      string `json:"avatar" binding:"max=2048"`
}

// AddMemberRequest represents an add member request.
type AddMemberRequest struct {
	MemberID string `json:"member_id" binding:"required"`
}
