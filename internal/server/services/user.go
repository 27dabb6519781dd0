// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, identity lookup, and account
// deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/dbx"
	"github.com/boxdrop/boxdrop/internal/server/auth"
	"github.com/boxdrop/boxdrop/internal/server/config"
	"github.com/boxdrop/boxdrop/internal/server/models"
	"github.com/boxdrop/boxdrop/internal/server/repositories/repomanager"
)

// UserService provides the identity operations:
//   - SignUp: create a user and issue a session token
//   - Login: verify credentials and issue a session token
//   - GetByID: resolve a user with boxes loaded
//   - DeleteAccount: remove the user and cascade their boxes
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
// The signing secret and token lifetime are captured here once; nothing in
// the service reads ambient state afterwards.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// SignUp creates a user with an empty box list and returns it together with
// a fresh session token. All three fields are required. A duplicate username
// surfaces as common.ErrAlreadyExists; uniqueness is guaranteed by the store
// constraint, so two concurrent signups for the same name cannot both win.
func (s *UserService) SignUp(ctx context.Context, username, password, location string) (*models.User, string, error) {
	if username == "" || password == "" || location == "" {
		return nil, "", fmt.Errorf("%w: username, password and location are required", common.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, Location: location})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: creating user: %v", common.ErrInternal, err)
	}
	user.Boxes = []models.Box{}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the password against the stored hash and returns the stored
// user (boxes loaded) with a fresh session token. An unknown username is
// common.ErrNotFound, a wrong password common.ErrInvalidCredentials; the two
// are deliberately distinct, matching the service's historical behavior.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: checking password: %v", common.ErrInternal, err)
	}
	if !ok {
		return nil, "", common.ErrInvalidCredentials
	}

	if err := s.loadBoxes(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetByID resolves a user by id with boxes loaded, or common.ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := s.loadBoxes(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListAll returns every user with boxes loaded. Debug surface only.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	all, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	for _, user := range all {
		if err := s.loadBoxes(ctx, user); err != nil {
			return nil, err
		}
	}

	return all, nil
}

// DeleteAccount removes the user and all their boxes in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Boxes(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Users(tx).DeleteByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: deleting user: %v", common.ErrInternal, err)
	}
	return nil
}

func (s *UserService) loadBoxes(ctx context.Context, user *models.User) error {
	boxes, err := s.repomanager.Boxes(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("%w: loading boxes: %v", common.ErrInternal, err)
	}
	user.Boxes = boxes
	return nil
}

func (s *UserService) issueToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}
	return token, nil
}
