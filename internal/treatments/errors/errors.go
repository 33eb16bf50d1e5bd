package errors

import "errors"

var (
	ErrNotFound = errors.New("treatment not found")
)
