package authflow

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/internal/metrics"
)

// provision sequences the post-auth side effects. Each is guarded by
// configuration presence and isolated: no failure here reaches the caller or
// delays the user's redirect. Only an inline after-auth job may block.
func (s *Service) provision(ctx context.Context, shop, token string) {
	if len(s.cfg.Webhooks) > 0 {
		s.queue.EnqueueWebhooks(shop, token, s.cfg.Webhooks)
	}

	if len(s.cfg.ScriptTags) > 0 {
		s.queue.EnqueueScriptTags(shop, token, s.cfg.ScriptTags)
	}

	if s.jobs == nil {
		return
	}
	if s.cfg.AfterAuthJobInline {
		if err := s.jobs.RunNow(ctx, shop); err != nil {
			log.Err(err).Str("shop", shop).Msg("inline after-auth job failed")
			metrics.ProvisioningFailures.WithLabelValues("job").Inc()
		}
		return
	}
	s.jobs.Schedule(shop)
}
