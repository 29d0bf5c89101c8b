// Package event announces committed room and message mutations on the
// per-room event channel.
package event

import (
	"context"
	"time"

	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/pubsub"
)

const publishTimeout = 2 * time.Second

// Emitter publishes domain events. Failures are logged and swallowed: the
// mutation has already committed by the time an event goes out.
type Emitter struct {
	pub pubsub.Publisher
}

// NewEmitter wraps pub. A nil pub drops every event.
func NewEmitter(pub pubsub.Publisher) *Emitter {
	if pub == nil {
		pub = pubsub.NoopPublisher{}
	}
	return &Emitter{pub: pub}
}

// Emit publishes an event of eventType for roomID with payload as body.
func (e *Emitter) Emit(ctx context.Context, eventType, roomID, actorID string, payload interface{}) {
	l := log.Ctx(ctx)

	evt, err := pubsub.NewEvent(eventType, roomID, actorID, payload)
	if err != nil {
		l.Warn().Err(err).Str("event_type", eventType).Msg("failed to encode event")
		return
	}

	// Detached from the request so a client hang-up does not cancel it.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := e.pub.Publish(pubCtx, pubsub.RoomEventsChannel(roomID), evt); err != nil {
		l.Warn().Err(err).
			Str("event_type", eventType).
			Str(log.FieldRoomID, roomID).
			Msg("failed to publish event")
	}
}
