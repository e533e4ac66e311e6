package otp

import (
	"context"
	"time"
)

// Entry is a pending verification code for one email.
type Entry struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps entries keyed by email. Get returns (nil, nil) on a miss.
// DeleteIfCode removes the entry only while it still holds code and reports
// whether this call removed it, so a replaced code can never be consumed and
// two concurrent consumers of one code cannot both win.
type Store interface {
	Get(ctx context.Context, email string) (*Entry, error)
	Set(ctx context.Context, email string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, email string) (bool, error)
	DeleteIfCode(ctx context.Context, email, code string) (bool, error)
}
