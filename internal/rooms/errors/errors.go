package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrDuplicateRoomID = errors.New("room id already exists")
)
