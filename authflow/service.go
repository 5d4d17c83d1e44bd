// Package authflow holds the authentication bootstrap core: the redirect
// state machine that escapes iframe cookie restrictions, the session
// materializer and the post-auth provisioning orchestrator. It produces
// typed outcomes and never touches HTTP directly.
package authflow

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shopframe/go-shop-auth/internal/errors"
	"github.com/shopframe/go-shop-auth/internal/metrics"
	"github.com/shopframe/go-shop-auth/sessionstate"
	"github.com/shopframe/go-shop-auth/shops"
)

// User-visible notice texts carried across redirects.
const (
	NoticeInvalidShop = "Invalid shop domain. Please check the address and try again."
	NoticeLoginFailed = "Could not log in to the shop."
	NoticeLoggedOut   = "Successfully logged out."
)

// Service sequences the authentication flow for every shop. Stateless per
// request; the session state passed in and returned is the only
// cross-request channel.
type Service struct {
	cfg     Config
	store   SessionStore
	queue   InstallQueue
	jobs    JobRunner // nil when no after-auth job is configured
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(cfg Config, store SessionStore, queue InstallQueue, jobs JobRunner, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:     cfg,
		store:   store,
		queue:   queue,
		jobs:    jobs,
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is the per-request context BeginAuth evaluates. Everything here is
// derived from the incoming request; session-scoped flags live in the state.
type Request struct {
	// Shop is the raw shop parameter, unvalidated.
	Shop string
	// TopLevelRequested is set when the request carries the top_level query
	// param, i.e. it already went through the iframe escape.
	TopLevelRequested bool
	// TopLevelCookiePresent is set when the top-level marker cookie arrived
	// with the request.
	TopLevelCookiePresent bool
}

// BeginAuth runs the redirect resolver for one authentication request.
// An invalid shop short-circuits before any cookie or context logic.
func (s *Service) BeginAuth(req Request, state sessionstate.State) (Outcome, sessionstate.State) {
	shop, ok := shops.Sanitize(req.Shop, s.cfg.ShopDomainSuffix)
	if !ok {
		metrics.AuthBegins.WithLabelValues("invalid_shop").Inc()
		return s.invalidShop(state), state
	}

	// Remember which shop is authenticating before any detour.
	state.ShopDomain = shop.String()

	if CookieAccess(s.cfg.EmbeddedApp, req.TopLevelRequested, state.CookiesPersist) == RequiresCookieCheck {
		metrics.AuthBegins.WithLabelValues("cookie_check").Inc()
		return fullPageRedirect(EnableCookiesPath + "?shop=" + url.QueryEscape(shop.String())), state
	}

	if s.contextAuthoritative(req, state) {
		// Safe to proceed: route through the app's own OAuth-initiation
		// endpoint so standard middleware runs before the provider hop.
		state.TopLevelOAuthDone = false
		out := inContextRedirect(OAuthPath + "?shop=" + url.QueryEscape(shop.String()))
		out.ClearTopLevelMarker = true
		metrics.AuthBegins.WithLabelValues("provider").Inc()
		return out, state
	}

	// Embedded, not yet at top level: escape the iframe. The session flag
	// makes the second pass authoritative, so this cannot loop.
	state.TopLevelOAuthDone = true
	out := fullPageRedirect(LoginPath + "?top_level=true&shop=" + url.QueryEscape(shop.String()))
	out.SetTopLevelMarker = true
	metrics.AuthBegins.WithLabelValues("top_level").Inc()
	return out, state
}

// contextAuthoritative reports whether we may proceed to the provider in the
// current navigation context.
func (s *Service) contextAuthoritative(req Request, state sessionstate.State) bool {
	if !s.cfg.EmbeddedApp {
		return true
	}
	if req.TopLevelRequested {
		return true
	}
	return state.TopLevelOAuthDone || req.TopLevelCookiePresent
}

// EnableCookiesPage resolves the GET on the same-origin cookie detour page.
func (s *Service) EnableCookiesPage(rawShop string, state sessionstate.State) (Outcome, sessionstate.State) {
	shop, ok := shops.Sanitize(rawShop, s.cfg.ShopDomainSuffix)
	if !ok {
		return s.invalidShop(state), state
	}
	return renderPage(PageEnableCookies, shop.String()), state
}

// ConfirmCookieAccess records that the detour page verified cookie
// persistence and re-enters the login flow.
func (s *Service) ConfirmCookieAccess(rawShop string, state sessionstate.State) (Outcome, sessionstate.State) {
	shop, ok := shops.Sanitize(rawShop, s.cfg.ShopDomainSuffix)
	if !ok {
		return s.invalidShop(state), state
	}

	state.CookiesPersist = true
	return fullPageRedirect(LoginPath + "?shop=" + url.QueryEscape(shop.String())), state
}

// Logout invalidates the browser session and deletes the stored shop
// session. Terminal: the returned state is empty regardless of what was
// stored, even when the store delete fails.
func (s *Service) Logout(ctx context.Context, state sessionstate.State) (Outcome, sessionstate.State) {
	if state.ShopDomain != "" {
		if err := s.store.Delete(ctx, state.ShopDomain); err != nil {
			log.Err(err).Str("shop", state.ShopDomain).Msg("logout: failed to delete shop session")
		}
	}

	out := inContextRedirect(LoginPath)
	out.Notice = NoticeLoggedOut
	out.ClearTopLevelMarker = true
	return out, sessionstate.State{}
}

// returnAddress is the stored return address or the configured root. Never
// taken from request parameters.
func (s *Service) returnAddress(state sessionstate.State) string {
	if state.ReturnTo != "" {
		return state.ReturnTo
	}
	return s.cfg.RootURL
}

func (s *Service) invalidShop(state sessionstate.State) Outcome {
	out := inContextRedirect(s.returnAddress(state))
	out.Notice = NoticeInvalidShop
	out.Err = apperrors.ErrInvalidShop
	return out
}
