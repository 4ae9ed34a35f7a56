// Package files declares the repository contract for file entry storage.
package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/google/uuid"
)

// Repository defines operations over the files collection.
type Repository interface {
	// Create inserts a new file entry and returns it with generated fields.
	Create(ctx context.Context, file *models.File) (*models.File, error)

	// GetByID returns the entry with the given id regardless of owner,
	// or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// GetByIDAndOwner returns the entry only when it belongs to userID,
	// or common.ErrNotFound.
	GetByIDAndOwner(ctx context.Context, id string, userID string) (*models.File, error)

	// ListByOwner returns a page of the owner's entries. When parentID is
	// valid only direct children of that folder are returned; otherwise
	// every entry of the owner is eligible.
	ListByOwner(ctx context.Context, userID string, parentID uuid.NullUUID, offset, limit int) ([]*models.File, error)

	// SetPublic updates the visibility of the entry matching both id and
	// owner, returning the updated entry or common.ErrNotFound. Filtering
	// on the owner inside the update keeps the check-and-set atomic.
	SetPublic(ctx context.Context, id string, userID string, isPublic bool) (*models.File, error)

	// Count returns the total number of file entries.
	Count(ctx context.Context) (int64, error)
}
