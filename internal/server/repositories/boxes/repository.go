// Package boxes stores the append-only box collections. A box is immutable
// once appended; the only way one disappears is the owning account being
// deleted.
package boxes

import (
	"context"

	"github.com/boxdrop/boxdrop/internal/server/models"
)

type Repository interface {
	// Append adds one box to the owner's collection as a single insert
	// (no read-modify-write of the collection). An unknown owner yields
	// common.ErrNotFound.
	Append(ctx context.Context, box *models.Box) (*models.Box, error)

	// ListByUser returns the user's boxes in insertion order.
	ListByUser(ctx context.Context, userID string) ([]models.Box, error)

	// DeleteByUser removes all boxes of the user. Used only by account
	// deletion.
	DeleteByUser(ctx context.Context, userID string) error
}
