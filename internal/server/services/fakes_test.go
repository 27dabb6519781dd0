package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/boxdrop/boxdrop/internal/dbx"
	"github.com/boxdrop/boxdrop/internal/server/models"
	boxesrepo "github.com/boxdrop/boxdrop/internal/server/repositories/boxes"
	usersrepo "github.com/boxdrop/boxdrop/internal/server/repositories/users"
)

// --- shared fakes for service tests ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createErr error
	created   []*models.User

	getOut *models.User
	getErr error

	deleteErr     error
	deletedIDs    []string
	listOut       []*models.User
	listErr       error
	nextCreatedID string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = f.nextCreatedID
	if u.ID == "" {
		u.ID = "u-1"
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) DeleteByID(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeUsersRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeBoxesRepo struct {
	appendErr error
	appended  []*models.Box

	listOut []models.Box
	listErr error

	deleteErr      error
	deletedByUser  []string
	nextAppendedID string
}

func (f *fakeBoxesRepo) Append(ctx context.Context, box *models.Box) (*models.Box, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	box.ID = f.nextAppendedID
	if box.ID == "" {
		box.ID = "b-1"
	}
	f.appended = append(f.appended, box)
	return box, nil
}

func (f *fakeBoxesRepo) ListByUser(ctx context.Context, userID string) ([]models.Box, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut == nil {
		return []models.Box{}, nil
	}
	return f.listOut, nil
}

func (f *fakeBoxesRepo) DeleteByUser(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedByUser = append(f.deletedByUser, userID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	b *fakeBoxesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Boxes(db dbx.DBTX) boxesrepo.Repository      { return m.b }

type fakeImageStore struct {
	name string
	err  error

	gotField       string
	gotContentType string
	gotData        []byte
}

func (f *fakeImageStore) Save(ctx context.Context, field, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gotField = field
	f.gotContentType = contentType
	f.gotData = data
	return f.name, nil
}
