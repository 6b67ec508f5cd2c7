package users

import (
	"context"

	"github.com/ruangpuisi/api/internal/server/models"
)

// ProfileUpdate carries the mutable profile fields. A nil ProfilePicture
// clears the stored picture.
type ProfileUpdate struct {
	Nama           string
	Bio            string
	ProfilePicture *string
}

type Repository interface {
	// Create inserts a new user and returns the stored record. A duplicate
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by (lower-cased) email. The returned record
	// includes the password hash; it is meant for credential checks only.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by id, excluding the password hash.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetHashByID returns only the stored password hash.
	GetHashByID(ctx context.Context, id string) (string, error)

	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
