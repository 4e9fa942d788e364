package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"authserver/internal/repository"
)

// Profile is the client-facing view of a user row. NULL nickname and
// description come back as empty strings.
type Profile struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	Description string `json:"description"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateDescription(ctx context.Context, userID int64, description string) error
}

type profileService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewProfileService(users repository.UserRepository, logger *zap.Logger) ProfileService {
	return &profileService{users: users, logger: logger}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return &Profile{
		ID:          user.ID,
		Username:    user.Username,
		Nickname:    user.Nickname.String,
		Description: user.Description.String,
	}, nil
}

func (s *profileService) UpdateDescription(ctx context.Context, userID int64, description string) error {
	if err := s.users.UpdateDescription(ctx, userID, description); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("Failed to update description", zap.Error(err))
		return fmt.Errorf("failed to update description: %w", err)
	}

	s.logger.Info("User updated description", zap.Int64("id", userID))
	return nil
}
