package authflow

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/shopframe/go-shop-auth/internal/errors"
	"github.com/shopframe/go-shop-auth/internal/metrics"
	"github.com/shopframe/go-shop-auth/provider"
	"github.com/shopframe/go-shop-auth/sessionstate"
	"github.com/shopframe/go-shop-auth/sessionstore"
	"github.com/shopframe/go-shop-auth/shops"
)

// HandleCallback materializes a completed provider exchange into a persisted
// session and triggers post-auth provisioning. A nil result means the
// provider denied or failed authentication: no record is written and the
// user is sent back to the login entry point, never to the provider (which
// would loop).
func (s *Service) HandleCallback(ctx context.Context, result *provider.Result, state sessionstate.State) (Outcome, sessionstate.State) {
	if result == nil {
		metrics.Callbacks.WithLabelValues("denied").Inc()
		out := inContextRedirect(LoginPath)
		out.Notice = NoticeLoginFailed
		out.Err = apperrors.ErrProviderDenied
		return out, state
	}

	shop, ok := shops.Sanitize(result.Shop, s.cfg.ShopDomainSuffix)
	if !ok {
		metrics.Callbacks.WithLabelValues("invalid_shop").Inc()
		return s.invalidShop(state), state
	}

	record := sessionstore.Record{
		Shop:        shop.String(),
		AccessToken: result.AccessToken,
		CreatedAt:   s.nowTime(),
	}
	if result.AssociatedUser != nil {
		record.UserID = result.AssociatedUser.ID
	}

	token, err := s.store.Put(ctx, shop.String(), record)
	if err != nil {
		log.Err(err).Str("shop", shop.String()).Msg("failed to store shop session")
		metrics.Callbacks.WithLabelValues("store_error").Inc()
		out := inContextRedirect(LoginPath)
		out.Notice = NoticeLoginFailed
		return out, state
	}

	// The return address is consumed before the session identity is
	// regenerated, mirroring a one-shot session value.
	returnTo := state.ReturnTo

	// Fresh state: new session identity, pre-auth CSRF token discarded.
	fresh := sessionstate.Fresh()
	fresh.ShopDomain = shop.String()
	fresh.SessionToken = token
	fresh.CookiesPersist = state.CookiesPersist
	if result.AssociatedUser != nil {
		fresh.UserID = result.AssociatedUser.ID
	}

	s.provision(ctx, shop.String(), result.AccessToken)

	metrics.Callbacks.WithLabelValues("success").Inc()
	out := inContextRedirect(s.returnAddress(sessionstate.State{ReturnTo: returnTo}))
	out.ClearTopLevelMarker = true
	return out, fresh
}
