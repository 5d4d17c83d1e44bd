package sessionstore

import (
	"context"
	"time"
)

// Record is the persisted outcome of a successful OAuth callback. At most one
// record exists per shop; a new login overwrites the previous one.
type Record struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo stores one session record per shop. Put is an atomic per-shop upsert
// (last writer wins) and returns an opaque token the browser session holds in
// place of the raw record.
type Repo interface {
	Put(ctx context.Context, shop string, record Record) (token string, err error)
	Get(ctx context.Context, shop string) (Record, error)
	Delete(ctx context.Context, shop string) error
}
