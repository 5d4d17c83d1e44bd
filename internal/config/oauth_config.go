package config

import "strings"

type OAuthConfig interface {
	GetAPIKey() string
	GetAPISecret() string
	GetOAuthScopes() []string
	GetSessionSecret() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetAPIKey returns the OAuth client id issued by the platform for this app.
func (OAuth) GetAPIKey() string {
	return GetEnv("SHOP_API_KEY", "")
}

func (OAuth) GetAPISecret() string {
	return GetEnv("SHOP_API_SECRET", "")
}

func (OAuth) GetOAuthScopes() []string {
	scopes := GetEnv("SHOP_OAUTH_SCOPES", "read_products")
	return splitAndTrim(scopes)
}

// GetSessionSecret returns the key used to sign the session-state cookie and
// the OAuth state parameter. Falls back to the API secret so a dev setup only
// needs the two API credentials.
func (OAuth) GetSessionSecret() string {
	if secret := GetEnv("SESSION_SECRET", ""); secret != "" {
		return secret
	}
	return GetEnv("SHOP_API_SECRET", "")
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
