package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"authserver/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, nickname) VALUES ($1, $2, $3) RETURNING id, created_at`)).
		WithArgs("alice", "digest", "Alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	user := &models.User{
		Username:     "alice",
		PasswordHash: "digest",
		Nickname:     sql.NullString{String: "Alice", Valid: true},
	}
	err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "digest", nil).
		WillReturnError(&pq.Error{Code: "23505"})

	user := &models.User{Username: "alice", PasswordHash: "digest"}
	err := repo.CreateUser(context.Background(), user)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "nickname", "description", "created_at"}).
		AddRow(int64(3), "alice", "digest", "Alice", nil, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, nickname, description, created_at FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Alice", user.Nickname.String)
	assert.False(t, user.Description.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, nickname, description, created_at FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "nickname", "description", "created_at"}).
		AddRow(int64(3), "alice", "digest", nil, "about me", now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, nickname, description, created_at FROM users WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	user, err := repo.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "about me", user.Description.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDescription(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET description = $1 WHERE id = $2`)).
		WithArgs("hello", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateDescription(context.Background(), 3, "hello"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDescriptionUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET description = $1 WHERE id = $2`)).
		WithArgs("hello", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDescription(context.Background(), 99, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
