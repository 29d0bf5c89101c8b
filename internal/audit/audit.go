package audit

import (
	"context"

	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
)

// Audit actions for chatroom-service.
const (
	ActionCreateRoom    = "room.create"
	ActionUpdateRoom    = "room.update"
	ActionAddMember     = "room.add_member"
	ActionDeleteRoom    = "room.delete"
	ActionSendMessage   = "message.send"
	ActionDeleteMessage = "message.delete"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldTarget = "target"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, userID, target, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTarget, target).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action, userID, target, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTarget, target).
		Str(FieldDetail, detail).
		Msg(msg)
}
