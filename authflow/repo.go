package authflow

import (
	"context"

	"github.com/shopframe/go-shop-auth/provision"
	"github.com/shopframe/go-shop-auth/sessionstore"
)

// SessionStore persists one session record per shop. Put returns the opaque
// token the browser session holds in place of the raw record.
type SessionStore interface {
	Put(ctx context.Context, shop string, record sessionstore.Record) (token string, err error)
	Delete(ctx context.Context, shop string) error
}

// InstallQueue accepts provisioning work. Fire-and-forget: no return value,
// the flow never observes completion or failure.
type InstallQueue interface {
	EnqueueWebhooks(shop, token string, hooks []provision.Webhook)
	EnqueueScriptTags(shop, token string, tags []provision.ScriptTag)
}

// JobRunner executes the after-auth job.
type JobRunner interface {
	RunNow(ctx context.Context, shopDomain string) error
	Schedule(shopDomain string)
}
