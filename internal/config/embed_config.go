package config

import "strconv"

type EmbedConfig interface {
	EmbeddedAppEnabled() bool
	GetShopDomainSuffix() string
	GetRootURL() string
}

type Embed struct{}

var _ EmbedConfig = Embed{}

// EmbeddedAppEnabled reports whether the app is served inside the platform's
// iframe. Defaults to true, matching the typical embedded-app deployment.
func (Embed) EmbeddedAppEnabled() bool {
	enabled, err := strconv.ParseBool(GetEnv("EMBEDDED_APP", "true"))
	if err != nil {
		return true
	}
	return enabled
}

// GetShopDomainSuffix returns the domain suffix every valid shop must carry
// (e.g. ".myshopify.com"). Shop params are validated against it before any
// redirect is built.
func (Embed) GetShopDomainSuffix() string {
	return GetEnv("SHOP_DOMAIN_SUFFIX", ".myshopify.com")
}

// GetRootURL is the in-app address users land on after authentication when no
// return address was recorded.
func (Embed) GetRootURL() string {
	return GetEnv("ROOT_URL", "/")
}
