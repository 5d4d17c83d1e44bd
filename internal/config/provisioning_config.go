package config

type ProvisioningConfig interface {
	GetWebhookTopics() []string
	GetWebhookAddress() string
	GetScriptTagSources() []string
	AfterAuthJobEnabled() bool
	AfterAuthJobInline() bool
}

type Provisioning struct{}

var _ ProvisioningConfig = Provisioning{}

// GetWebhookTopics returns the webhook topics to register for every newly
// authenticated shop. Empty means no webhook installation.
func (Provisioning) GetWebhookTopics() []string {
	return splitAndTrim(GetEnv("WEBHOOK_TOPICS", ""))
}

// GetWebhookAddress is the endpoint the platform delivers webhooks to.
func (Provisioning) GetWebhookAddress() string {
	return GetEnv("WEBHOOK_ADDRESS", "")
}

// GetScriptTagSources returns script URLs to inject into the shop storefront.
// Empty means no script-tag installation.
func (Provisioning) GetScriptTagSources() []string {
	return splitAndTrim(GetEnv("SCRIPT_TAG_SOURCES", ""))
}

// AfterAuthJobEnabled turns on the post-auth job hook.
func (Provisioning) AfterAuthJobEnabled() bool {
	return GetEnv("AFTER_AUTH_JOB", "") == "true"
}

// AfterAuthJobInline controls whether the post-auth job blocks the callback
// response or is scheduled in the background.
func (Provisioning) AfterAuthJobInline() bool {
	return GetEnv("AFTER_AUTH_JOB_INLINE", "") == "true"
}
