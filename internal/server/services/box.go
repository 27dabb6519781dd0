package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/server/auth"
	"github.com/boxdrop/boxdrop/internal/server/config"
	"github.com/boxdrop/boxdrop/internal/server/images"
	"github.com/boxdrop/boxdrop/internal/server/models"
	"github.com/boxdrop/boxdrop/internal/server/repositories/repomanager"
)

// Upload carries the raw bytes of an uploaded image plus the form field and
// declared content type the storage name is derived from.
type Upload struct {
	Field       string
	ContentType string
	Data        []byte
}

// AddBoxParams is the validated request shape of the add-box operation.
// Coordinates arrive as text and are parsed here; bad numbers are a
// validation failure, not a stored NaN.
type AddBoxParams struct {
	// OwnerID is the client-supplied owner. It is honored only when the
	// session-owner policy is off; see BoxService.AddBox.
	OwnerID      string
	X            string
	Y            string
	LocationCity string
	Image        *Upload
}

// BoxService appends boxes to user collections, storing an optional image
// through the image collaborator first.
type BoxService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	imageStore          images.Store
	requireSessionOwner bool
}

func NewBoxService(db *sql.DB, m repomanager.RepositoryManager, store images.Store, cfg *config.Config) *BoxService {
	return &BoxService{
		db:                  db,
		repomanager:         m,
		imageStore:          store,
		requireSessionOwner: cfg.RequireSessionOwner,
	}
}

// AddBox appends one box to the owner's collection and returns it.
//
// Ownership is a deployment policy. With RequireSessionOwner on, the owner is
// the authenticated user from the request context and the client-supplied id
// is ignored; without a session the call fails. With the policy off the
// client-supplied id is trusted as-is, which reproduces the behavior this
// service inherits: any caller can append to any user's collection. The
// policy exists so deployments can close that hole without a code change.
//
// The image, when present, is stored before the append. If the append then
// fails the stored image is orphaned; that is accepted, the record never
// points at bytes that do not exist.
func (s *BoxService) AddBox(ctx context.Context, p AddBoxParams) (*models.Box, error) {
	ownerID, err := s.resolveOwner(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}

	x, err := strconv.ParseFloat(p.X, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: coordinate x %q is not a number", common.ErrValidation, p.X)
	}
	y, err := strconv.ParseFloat(p.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: coordinate y %q is not a number", common.ErrValidation, p.Y)
	}
	if p.LocationCity == "" {
		return nil, fmt.Errorf("%w: location city is required", common.ErrValidation)
	}

	var imageRef string
	if p.Image != nil {
		imageRef, err = s.imageStore.Save(ctx, p.Image.Field, p.Image.ContentType, p.Image.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: storing image: %v", common.ErrInternal, err)
		}
	}

	box := &models.Box{
		UserID:       ownerID,
		X:            x,
		Y:            y,
		ImageRef:     imageRef,
		LocationCity: p.LocationCity,
	}

	repo := s.repomanager.Boxes(s.db)
	box, err = repo.Append(ctx, box)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: appending box: %v", common.ErrInternal, err)
	}

	return box, nil
}

func (s *BoxService) resolveOwner(ctx context.Context, clientOwnerID string) (string, error) {
	if s.requireSessionOwner {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return "", common.ErrUnauthenticated
		}
		return user.ID, nil
	}

	if clientOwnerID == "" {
		return "", fmt.Errorf("%w: owner id is required", common.ErrValidation)
	}
	return clientOwnerID, nil
}
