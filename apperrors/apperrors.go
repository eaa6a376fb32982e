package apperrors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("operation not permitted")
	ErrConflict     = errors.New("operation conflicts with current state")
	ErrBadRequest   = errors.New("invalid request")
	ErrUnauthorized = errors.New("authentication required")
)
