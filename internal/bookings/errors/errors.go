package errors

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrNotFound = errors.New("room or booking not found")

	ErrDuplicateBookingID = errors.New("booking id already exists in room")
)
