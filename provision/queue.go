package provision

import (
	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/internal/metrics"
)

// Queue buffers install tasks between the callback path and the worker.
// Enqueue never blocks: when the buffer is full the task is dropped and
// logged, keeping the user's redirect independent of provisioning health.
type Queue struct {
	tasks chan Task
}

func NewQueue(size int) *Queue {
	return &Queue{tasks: make(chan Task, size)}
}

func (q *Queue) Enqueue(task Task) {
	select {
	case q.tasks <- task:
		metrics.InstallQueueDepth.Set(float64(len(q.tasks)))
	default:
		log.Error().Str("shop", task.Shop).Msg("install queue full, dropping task")
		metrics.ProvisioningFailures.WithLabelValues("queue").Inc()
	}
}

// EnqueueWebhooks queues webhook installation for a shop.
func (q *Queue) EnqueueWebhooks(shop, token string, hooks []Webhook) {
	q.Enqueue(Task{Shop: shop, Token: token, Webhooks: hooks})
}

// EnqueueScriptTags queues script-tag installation for a shop.
func (q *Queue) EnqueueScriptTags(shop, token string, tags []ScriptTag) {
	q.Enqueue(Task{Shop: shop, Token: token, ScriptTags: tags})
}

// Tasks exposes the inbox the worker consumes.
func (q *Queue) Tasks() <-chan Task {
	return q.tasks
}
