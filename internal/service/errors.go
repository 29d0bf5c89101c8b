package service

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound           = errors.New("room not found")
	ErrMessageNotFound        = errors.New("message not found")
	ErrNotRoomOwner           = errors.New("You are not the owner of the room.")
	ErrNotRoomMember          = errors.New("You don't belong to this room.")
	ErrNotMessageSender       = errors.New("You are not authorized to delete this message.")
	ErrMessageIndexOutOfRange = errors.New("MessageId is out of bounds.")
)

// opError gives a sentinel an operation-specific message while keeping
// errors.Is matching on the sentinel.
type opError struct {
	kind error
	msg  string
}

func (e *opError) Error() string { return e.msg }
func (e *opError) Unwrap() error { return e.kind }

func withMessage(kind error, format string, args ...interface{}) error {
	return &opError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a room or message lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrMessageNotFound)
}

// IsPermissionDenied reports whether err is an ownership, membership or
// authorship refusal.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrNotRoomOwner) ||
		errors.Is(err, ErrNotRoomMember) ||
		errors.Is(err, ErrNotMessageSender)
}
