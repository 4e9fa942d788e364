// Package token issues and verifies the two JWT classes used by the service.
// Access and refresh tokens are signed with independent HMAC secrets and
// carry the same identity claims with independent lifetimes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"authserver/internal/models"
)

// ErrInvalidToken is returned for every verification failure. Expiry and bad
// signatures are logged differently server-side but are indistinguishable to
// callers, so responses cannot be used as an oracle.
var ErrInvalidToken = errors.New("invalid or expired token")

// Manager mints and verifies signed tokens. It is pure computation: no
// store access, safe for concurrent use.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *zap.Logger
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger,
	}
}

// IssueAccess mints a signed access token for the given identity.
func (m *Manager) IssueAccess(userID int64, username string) (string, error) {
	return m.issue(userID, username, m.accessSecret, m.accessTTL)
}

// IssueRefresh mints a signed refresh token for the given identity.
func (m *Manager) IssueRefresh(userID int64, username string) (string, error) {
	return m.issue(userID, username, m.refreshSecret, m.refreshTTL)
}

// ParseAccess verifies an access token and returns its claims.
func (m *Manager) ParseAccess(tokenString string) (*models.Claims, error) {
	return m.parse(tokenString, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *Manager) ParseRefresh(tokenString string) (*models.Claims, error) {
	return m.parse(tokenString, m.refreshSecret)
}

func (m *Manager) issue(userID int64, username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenString, nil
}

func (m *Manager) parse(tokenString string, secret []byte) (*models.Claims, error) {
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			m.logger.Debug("Token expired")
		} else {
			m.logger.Debug("Token rejected", zap.Error(err))
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
