package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// AUTH FLOW
	// Login and the cookie detour are rendered inside (or navigated from)
	// the platform iframe, so they must stay embeddable.
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.EmbeddableMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.EmbeddableMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteEnableCookies, ChainMiddleware(s.EnableCookiesHandler(), s.EmbeddableMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteEnableCookies, ChainMiddleware(s.ConfirmCookiesHandler(), s.EmbeddableMiddleware()...))

	// Provider round-trip happens at top level; frame protection applies.
	s.RegisterRouteHandler("GET "+RouteOAuthStart, ChainMiddleware(s.OAuthStartHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))

	// OPERATIONAL
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
