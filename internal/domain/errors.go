package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateGroup    = errors.New("group name already exists")
	ErrDuplicateEndpoint = errors.New("host, port and protocol already registered")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimited       = errors.New("too many attempts")
)
