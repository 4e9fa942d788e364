package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"authserver/internal/hash"
	"authserver/internal/models"
	"authserver/internal/repository"
	"authserver/internal/token"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenPair bundles the access and refresh tokens minted at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

type AuthService interface {
	Register(ctx context.Context, username, password, nickname string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	hasher *hash.PasswordHasher
	issuer *token.Manager
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, hasher *hash.PasswordHasher, issuer *token.Manager, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		issuer: issuer,
		logger: logger,
	}
}

// Register hashes the password and creates the user. Username uniqueness is
// enforced by the store, so concurrent registrations of the same name get
// exactly one winner.
func (s *authService) Register(ctx context.Context, username, password, nickname string) (*models.User, error) {
	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Nickname:     sql.NullString{String: nickname, Valid: nickname != ""},
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return user, nil
}

// Login verifies credentials and mints a token pair, persisting the refresh
// token in the ledger. An unknown username and a wrong password are logged
// separately but produce the identical ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Failed login attempt", zap.String("username", username), zap.String("reason", "user not found"))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		s.logger.Info("Failed login attempt", zap.String("username", username), zap.String("reason", "invalid password"))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.issuer.IssueAccess(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to issue access token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefresh(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to issue refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.tokens.Upsert(ctx, refreshToken, user.ID); err != nil {
		s.logger.Error("Failed to persist refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.Int64("id", user.ID))

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     user.Username,
	}, nil
}

// Refresh mints a new access token for a valid refresh token. Validity is
// ledger-authoritative: a token deleted by logout is rejected even while its
// signature still verifies, so revocation takes effect immediately.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	ownerID, err := s.tokens.FindOwner(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Refresh rejected", zap.String("username", claims.Username), zap.String("reason", "token revoked"))
			return "", ErrInvalidToken
		}
		s.logger.Error("Failed to look up refresh token", zap.Error(err))
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if ownerID != claims.UserID {
		s.logger.Warn("Refresh token owner mismatch", zap.Int64("ledger_user_id", ownerID), zap.Int64("claims_user_id", claims.UserID))
		return "", ErrInvalidToken
	}

	accessToken, err := s.issuer.IssueAccess(claims.UserID, claims.Username)
	if err != nil {
		s.logger.Error("Failed to issue access token", zap.Error(err))
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout deletes the refresh token from the ledger. The owning username is
// resolved first purely for the audit log; failure to resolve is non-fatal.
// Deleting a token that was never in the ledger is not an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	username := "unknown"
	if name, err := s.tokens.FindOwnerUsername(ctx, refreshToken); err == nil {
		username = name
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		s.logger.Error("Failed to delete refresh token", zap.Error(err))
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	s.logger.Info("User logged out", zap.String("username", username))
	return nil
}
