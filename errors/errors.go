package errors

import "fmt"

var (
	ErrRoomFull         = fmt.Errorf("room is full")
	ErrRoomClosed       = fmt.Errorf("room has been closed")
	ErrAlreadyMember    = fmt.Errorf("connection already joined the room")
	ErrNotMember        = fmt.Errorf("connection is not a member of the room")
	ErrMalformedMessage = fmt.Errorf("malformed message")
	ErrInvalidConfig    = fmt.Errorf("invalid configuration")
	ErrInvalidPayload   = fmt.Errorf("invalid payload")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
