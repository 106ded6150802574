package interfaces

import (
	"context"

	"aurora-server/shared/models"
)

// UserRepository defines storage operations for user accounts needed by the
// synthetic-population pipeline.
type UserRepository interface {
	// CreateUser inserts a new user. Returns models.ErrUserAlreadyExists when the
	// username is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns models.ErrUserNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
