package pubsub

import "fmt"

// Channel naming conventions for chat room events.
const (
	ChannelRoomEvents = "chatroom:room:%s:events"
)

// Event types emitted after a committed room or message mutation.
const (
	EventRoomCreated    = "room.created"
	EventRoomUpdated    = "room.updated"
	EventMemberAdded    = "room.member_added"
	EventRoomDeleted    = "room.deleted"
	EventMessageSent    = "message.sent"
	EventMessageDeleted = "message.deleted"
)

// RoomEventsChannel returns the channel name for a room's events.
func RoomEventsChannel(roomID string) string {
	return fmt.Sprintf(ChannelRoomEvents, roomID)
}
