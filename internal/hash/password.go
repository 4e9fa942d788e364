// Package hash wraps bcrypt password hashing behind a small, bounded API.
package hash

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher produces and verifies salted bcrypt digests. Hashing is
// deliberately expensive, so concurrent work is capped with a weighted
// semaphore: a burst of registrations cannot monopolize the process while
// other requests are being served.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewPasswordHasher(cost int, maxConcurrent int64) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Hash returns a salted digest of password. The salt is randomized per call,
// so hashing the same password twice yields different digests.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquiring hash slot: %w", err)
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. The cost and salt are read
// from the digest itself, so digests written at an older cost keep verifying
// after the configured cost changes.
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
