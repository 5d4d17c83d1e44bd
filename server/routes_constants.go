package server

import "github.com/shopframe/go-shop-auth/authflow"

const contentTypeHTML = "text/html; charset=utf-8"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth flow routes. Login, cookie detour and OAuth initiation share
	// their paths with the flow's redirect targets.
	RouteLogin         = authflow.LoginPath
	RouteEnableCookies = authflow.EnableCookiesPath
	RouteOAuthStart    = authflow.OAuthPath
	RouteOAuthCallback = authflow.OAuthPath + "/callback"
	RouteLogout        = "/logout"

	// Operational routes
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
