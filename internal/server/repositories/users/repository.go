// Package users defines the credential store contract: durable keyed storage
// of user records with username uniqueness enforced at the storage layer.
package users

import (
	"context"

	"github.com/boxdrop/boxdrop/internal/server/models"
)

type Repository interface {
	// Create inserts the user; a duplicate username yields
	// common.ErrAlreadyExists (enforced by the storage constraint, not a
	// prior existence check).
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// DeleteByID removes the user record or returns common.ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	// ListAll returns every user record. Debug surface only.
	ListAll(ctx context.Context) ([]*models.User, error)
}
