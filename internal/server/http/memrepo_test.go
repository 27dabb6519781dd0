package httpapp

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/dbx"
	"github.com/boxdrop/boxdrop/internal/server/models"
	boxesrepo "github.com/boxdrop/boxdrop/internal/server/repositories/boxes"
	usersrepo "github.com/boxdrop/boxdrop/internal/server/repositories/users"
)

// In-memory repositories so transport tests can walk the full
// signup→login→whoami→addbox→delete flow without Postgres.

type memStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User // by id
	byName map[string]string       // username → id
	boxes  map[string][]models.Box // user id → collection
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		byName: map[string]string{},
		boxes:  map[string][]models.Box{},
	}
}

func (m *memStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[u.UserName]; exists {
		return nil, fmt.Errorf("username %q: %w", u.UserName, common.ErrAlreadyExists)
	}
	m.nextID++
	u.ID = fmt.Sprintf("u-%d", m.nextID)
	m.users[u.ID] = u
	m.byName[u.UserName] = u.ID
	return u, nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *m.users[id]
	return &clone, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	delete(m.byName, u.UserName)
	delete(m.users, id)
	return nil
}

func (m *memStore) ListAll(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memStore) Append(ctx context.Context, box *models.Box) (*models.Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[box.UserID]; !ok {
		return nil, fmt.Errorf("user %q: %w", box.UserID, common.ErrNotFound)
	}
	m.nextID++
	box.ID = fmt.Sprintf("b-%d", m.nextID)
	m.boxes[box.UserID] = append(m.boxes[box.UserID], *box)
	return box, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]models.Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Box, len(m.boxes[userID]))
	copy(out, m.boxes[userID])
	return out, nil
}

func (m *memStore) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boxes, userID)
	return nil
}

type memRepoManager struct{ store *memStore }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.store }
func (m *memRepoManager) Boxes(db dbx.DBTX) boxesrepo.Repository      { return m.store }

// newTxAllowingDB returns a sqlmock DB that tolerates any number of
// transactions, for code paths going through dbx.WithTx.
func newTxAllowingDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 8; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	t.Cleanup(func() { db.Close() })
	return db
}
