// Package users declares the repository contract for account storage.
package users

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository defines operations over the users collection.
type Repository interface {
	// Create inserts a new user. Implementations return
	// common.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the user with the given email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByCredentials returns the user matching both email and password
	// digest, or common.ErrNotFound. Callers must not distinguish between
	// unknown email and wrong password.
	FindByCredentials(ctx context.Context, email string, passwordHash string) (*models.User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
}
