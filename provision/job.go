package provision

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/internal/metrics"
)

// JobFunc is the application hook that runs once per shop after a
// successful login (e.g. syncing shop metadata).
type JobFunc func(ctx context.Context, shopDomain string) error

const scheduledJobTimeout = 30 * time.Second

// JobRunner executes the after-auth job either inline or in the background.
type JobRunner struct {
	job JobFunc
}

func NewJobRunner(job JobFunc) *JobRunner {
	return &JobRunner{job: job}
}

// RunNow executes the job synchronously. The single blocking call the auth
// flow is allowed to make.
func (r *JobRunner) RunNow(ctx context.Context, shopDomain string) error {
	return r.job(ctx, shopDomain)
}

// Schedule executes the job in the background. Errors are logged, never
// returned.
func (r *JobRunner) Schedule(shopDomain string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledJobTimeout)
		defer cancel()
		if err := r.job(ctx, shopDomain); err != nil {
			log.Err(err).Str("shop", shopDomain).Msg("after-auth job failed")
			metrics.ProvisioningFailures.WithLabelValues("job").Inc()
		}
	}()
}
