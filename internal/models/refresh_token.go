package models

import "time"

// RefreshToken is a row in the refresh-token ledger. The token string is the
// lookup key; rows are removed on logout, not on expiry (expiry is carried
// inside the signed token itself).
type RefreshToken struct {
	ID        int64     `db:"id"`
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
