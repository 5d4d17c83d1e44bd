// Package provision installs per-shop side effects (webhooks, script tags,
// the after-auth job) once a shop has authenticated. Work is handed to a
// queue and performed by a background worker; callers never observe
// completion or failure.
package provision

// Webhook is one topic subscription to register for a shop.
type Webhook struct {
	Topic   string `json:"topic"`
	Address string `json:"address"`
}

// ScriptTag is one storefront script injection to register for a shop.
type ScriptTag struct {
	Event string `json:"event"`
	Src   string `json:"src"`
}

// Task carries everything the worker needs to provision one shop. Either
// list may be empty; the worker installs whatever is present.
type Task struct {
	Shop       string
	Token      string
	Webhooks   []Webhook
	ScriptTags []ScriptTag
}
