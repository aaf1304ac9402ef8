package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrUnsupportedDriver = errors.New("unsupported legacy database driver")
)
