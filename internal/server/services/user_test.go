package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxdrop/boxdrop/internal/common"
	"github.com/boxdrop/boxdrop/internal/server/auth"
	"github.com/boxdrop/boxdrop/internal/server/config"
	"github.com/boxdrop/boxdrop/internal/server/models"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func TestSignUp_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{nextCreatedID: "u-7"}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	user, token, err := s.SignUp(context.Background(), "alice", "pw1", "CityA")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "CityA", user.Location)
	assert.NotEqual(t, "pw1", user.PasswordHash, "hash must never equal the plaintext")
	assert.Empty(t, user.Boxes)
	require.NotNil(t, user.Boxes, "a new user carries an empty box list, not nil")

	gotID, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "u-7", gotID)
}

func TestSignUp_MissingFields(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	for _, tc := range []struct{ username, password, location string }{
		{"", "pw", "City"},
		{"alice", "", "City"},
		{"alice", "pw", ""},
	} {
		_, _, err := s.SignUp(context.Background(), tc.username, tc.password, tc.location)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	assert.Empty(t, rm.u.created, "no user may be created on validation failure")
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrAlreadyExists}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	_, _, err := s.SignUp(context.Background(), "alice", "pw1", "CityA")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("pw1")
	require.NoError(t, err)

	stored := &models.User{ID: "u-1", UserName: "alice", PasswordHash: hash, Location: "CityA"}
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: stored},
		b: &fakeBoxesRepo{listOut: []models.Box{{ID: "b-1", UserID: "u-1", X: 1.5, Y: 2.5, LocationCity: "CityA"}}},
	}
	s := newUserService(t, rm)

	user, token, err := s.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	require.Len(t, user.Boxes, 1)

	gotID, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, stored.ID, gotID, "token must resolve to the stored user id")
}

func TestLogin_UnknownUsername(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrNotFound}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	_, _, err := s.Login(context.Background(), "ghost", "pw1")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("right")
	require.NoError(t, err)

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u-1", UserName: "alice", PasswordHash: hash}},
		b: &fakeBoxesRepo{},
	}
	s := newUserService(t, rm)

	_, _, err = s.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, common.ErrNotFound, "wrong password must stay distinct from unknown user")
}

func TestGetByID(t *testing.T) {
	stored := &models.User{ID: "u-1", UserName: "alice"}
	rm := &fakeRepoManager{u: &fakeUsersRepo{getOut: stored}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	user, err := s.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.NotNil(t, user.Boxes)
}

func TestGetByID_NotFound(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrNotFound}, b: &fakeBoxesRepo{}}
	s := newUserService(t, rm)

	_, err := s.GetByID(context.Background(), "u-404")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAccount_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, b: &fakeBoxesRepo{}}
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	s := NewUserService(db, rm, cfg)

	require.NoError(t, s.DeleteAccount(context.Background(), "u-1"))
	assert.Equal(t, []string{"u-1"}, rm.b.deletedByUser, "boxes cascade with the account")
	assert.Equal(t, []string{"u-1"}, rm.u.deletedIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccount_NotFound(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{deleteErr: common.ErrNotFound}, b: &fakeBoxesRepo{}}
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	s := NewUserService(db, rm, cfg)

	err := s.DeleteAccount(context.Background(), "u-404")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{listOut: []*models.User{{ID: "u-1", UserName: "alice"}, {ID: "u-2", UserName: "bob"}}},
		b: &fakeBoxesRepo{},
	}
	s := newUserService(t, rm)

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[0].Boxes)
}
