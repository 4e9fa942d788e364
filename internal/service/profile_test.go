package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	profiles := NewProfileService(env.users, zap.NewNop())

	user, err := env.auth.Register(ctx, "alice", "s3cret!", "Alice")
	require.NoError(t, err)

	profile, err := profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Alice", profile.Nickname)
	assert.Equal(t, "", profile.Description)
}

func TestGetProfileNullFieldsComeBackEmpty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	profiles := NewProfileService(env.users, zap.NewNop())

	user, err := env.auth.Register(ctx, "bob", "s3cret!", "")
	require.NoError(t, err)

	profile, err := profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", profile.Nickname)
	assert.Equal(t, "", profile.Description)
}

func TestGetProfileUnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	profiles := NewProfileService(env.users, zap.NewNop())

	_, err := profiles.GetProfile(ctx, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateDescription(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	profiles := NewProfileService(env.users, zap.NewNop())

	user, err := env.auth.Register(ctx, "alice", "s3cret!", "")
	require.NoError(t, err)

	require.NoError(t, profiles.UpdateDescription(ctx, user.ID, "hello there"))

	profile, err := profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", profile.Description)

	// Clearing the description is allowed.
	require.NoError(t, profiles.UpdateDescription(ctx, user.ID, ""))
	profile, err = profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", profile.Description)
}

func TestUpdateDescriptionUnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	profiles := NewProfileService(env.users, zap.NewNop())

	err := profiles.UpdateDescription(ctx, 12345, "anything")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
