package service

import (
	"errors"

	"go.opentelemetry.io/otel"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not owned by the current user")
	ErrDuplicate          = errors.New("duplicate")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrInvalidDish        = errors.New("dish is not one of your dishes")
	ErrDateRequired       = errors.New("date is required")
	ErrReaderNil          = errors.New("reader is nil")
	ErrNoPhoto            = errors.New("dish has no photo")
	ErrStorageDisabled    = errors.New("photo storage is not configured")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTaken      = errors.New("username is taken")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var tracer = otel.Tracer("chef/internal/service")
