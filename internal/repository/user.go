package repository

import (
	"context"

	"chef/internal/model"
)

// UserRepository stores accounts.
type UserRepository interface {
	// Create inserts a user. Returns ErrDuplicate when the username is taken.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByUsername returns a user or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
