package authflow

import "github.com/shopframe/go-shop-auth/provision"

// App route paths the resolver redirects through. The server package
// registers its handlers on the same constants.
const (
	LoginPath         = "/login"
	EnableCookiesPath = "/enable_cookies"
	OAuthPath         = "/auth/shopify"
)

// Config is the immutable per-process configuration the flow is constructed
// with. Nothing here mutates after startup.
type Config struct {
	// EmbeddedApp is true when the app is served inside the platform iframe.
	EmbeddedApp bool

	// ShopDomainSuffix every valid shop domain must end with.
	ShopDomainSuffix string

	// RootURL is the fallback return address after authentication.
	RootURL string

	// Webhooks to install for each newly authenticated shop. Empty disables
	// webhook installation.
	Webhooks []provision.Webhook

	// ScriptTags to install for each newly authenticated shop. Empty
	// disables script-tag installation.
	ScriptTags []provision.ScriptTag

	// AfterAuthJobInline runs the after-auth job synchronously on the
	// callback instead of scheduling it.
	AfterAuthJobInline bool
}
