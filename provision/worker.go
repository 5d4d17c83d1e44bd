package provision

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/internal/metrics"
)

// Worker consumes install tasks from the queue and performs the admin-API
// calls. Failures are logged and counted but never propagated; the contract
// with the auth flow is that provisioning has no visible failure path.
type Worker struct {
	installer *Installer
	inbox     <-chan Task
}

func NewWorker(installer *Installer, inbox <-chan Task) *Worker {
	return &Worker{installer: installer, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-w.inbox:
			metrics.InstallQueueDepth.Set(float64(len(w.inbox)))
			w.process(ctx, task)
		}
	}
}

func (w *Worker) process(ctx context.Context, task Task) {
	if len(task.Webhooks) > 0 {
		if err := w.installer.InstallWebhooks(ctx, task.Shop, task.Token, task.Webhooks); err != nil {
			log.Err(err).Str("shop", task.Shop).Msg("webhook installation failed")
			metrics.ProvisioningFailures.WithLabelValues("webhooks").Inc()
		}
	}
	if len(task.ScriptTags) > 0 {
		if err := w.installer.InstallScriptTags(ctx, task.Shop, task.Token, task.ScriptTags); err != nil {
			log.Err(err).Str("shop", task.Shop).Msg("script tag installation failed")
			metrics.ProvisioningFailures.WithLabelValues("scripttags").Inc()
		}
	}
}
