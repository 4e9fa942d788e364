package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RefreshTokenRepository is the ledger of currently-issued refresh tokens.
// Presence in the ledger is the authority for refresh-token validity; the
// token's own signature is only a tamper check.
type RefreshTokenRepository interface {
	// Upsert persists the token-to-user association, replacing any existing
	// row with the same token value so a retried login cannot fail on the
	// unique constraint.
	Upsert(ctx context.Context, token string, userID int64) error

	// FindOwner returns the owning user id, or ErrNotFound.
	FindOwner(ctx context.Context, token string) (int64, error)

	// FindOwnerUsername resolves the owning username through the users table,
	// or ErrNotFound. Used for audit logging on logout.
	FindOwnerUsername(ctx context.Context, token string) (string, error)

	// Delete removes the token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser revokes every token owned by the user. Not used by the
	// request paths today; kept alongside the cascade relationship as the
	// revoke-all extension point.
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type refreshTokenRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRefreshTokenRepository(db *sqlx.DB, log *zap.Logger) RefreshTokenRepository {
	return &refreshTokenRepository{db: db, log: log}
}

func (r *refreshTokenRepository) Upsert(ctx context.Context, token string, userID int64) error {
	query := `INSERT INTO refresh_tokens (token, user_id) VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = now()`
	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		return fmt.Errorf("upserting refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) FindOwner(ctx context.Context, token string) (int64, error) {
	var userID int64
	query := `SELECT user_id FROM refresh_tokens WHERE token = $1`
	if err := r.db.GetContext(ctx, &userID, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("selecting refresh token owner: %w", err)
	}
	return userID, nil
}

func (r *refreshTokenRepository) FindOwnerUsername(ctx context.Context, token string) (string, error) {
	var username string
	query := `SELECT u.username FROM refresh_tokens rt JOIN users u ON rt.user_id = u.id WHERE rt.token = $1`
	if err := r.db.GetContext(ctx, &username, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("selecting refresh token owner username: %w", err)
	}
	return username, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("deleting refresh tokens for user: %w", err)
	}
	return nil
}
