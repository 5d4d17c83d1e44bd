package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/authflow"
	"github.com/shopframe/go-shop-auth/sessionstate"
	"github.com/shopframe/go-shop-auth/shops"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName   string
	Notice    string
	CSRFToken string
}

// EnableCookiesPageData contains data for rendering the cookie detour page
type EnableCookiesPageData struct {
	AppName   string
	Shop      string
	CSRFToken string
}

// TopRedirectData carries the target for an iframe-escaping redirect
type TopRedirectData struct {
	Location string
}

// LoginHandler serves GET /login. With a shop parameter it starts the auth
// flow; without one it renders the shop entry form.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)

		rawShop := r.URL.Query().Get("shop")
		if rawShop == "" {
			s.writeSessionState(w, r, state)
			s.renderLoginPage(w, r, state)
			return
		}

		req := authflow.Request{
			Shop:                  rawShop,
			TopLevelRequested:     r.URL.Query().Get("top_level") == "true",
			TopLevelCookiePresent: hasTopLevelCookie(r),
		}
		out, state := s.flow.BeginAuth(req, state)
		s.applyOutcome(w, r, out, state)
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if !validCSRF(state, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid request token", http.StatusForbidden)
			return
		}

		req := authflow.Request{
			Shop:                  r.FormValue("shop"),
			TopLevelRequested:     r.FormValue("top_level") == "true",
			TopLevelCookiePresent: hasTopLevelCookie(r),
		}
		out, state := s.flow.BeginAuth(req, state)
		s.applyOutcome(w, r, out, state)
	}
}

// EnableCookiesHandler renders the cookie-access detour (GET /enable_cookies)
func (s *Server) EnableCookiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)
		out, state := s.flow.EnableCookiesPage(r.URL.Query().Get("shop"), state)
		s.applyOutcome(w, r, out, state)
	}
}

// ConfirmCookiesHandler records a successful cookie probe (POST /enable_cookies)
func (s *Server) ConfirmCookiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if !validCSRF(state, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid request token", http.StatusForbidden)
			return
		}

		out, state := s.flow.ConfirmCookieAccess(r.FormValue("shop"), state)
		s.applyOutcome(w, r, out, state)
	}
}

// OAuthStartHandler hands the browser to the provider's consent screen
// (GET /auth/shopify).
func (s *Server) OAuthStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)

		shop, ok := shops.Sanitize(r.URL.Query().Get("shop"), s.config.GetShopDomainSuffix())
		if !ok {
			setNotice(w, authflow.NoticeInvalidShop)
			http.Redirect(w, r, RouteLogin, http.StatusFound)
			return
		}

		state.ShopDomain = string(shop)
		s.writeSessionState(w, r, state)

		authURL, _ := s.oauth.AuthCodeURL(string(shop))
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// OAuthCallbackHandler finishes the provider round-trip
// (GET /auth/shopify/callback).
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)

		q := r.URL.Query()
		shop := q.Get("shop")
		code := q.Get("code")

		denied := q.Get("error") != "" || code == "" || !s.oauth.VerifyState(shop, q.Get("state"))
		if denied {
			out, state := s.flow.HandleCallback(r.Context(), nil, state)
			s.applyOutcome(w, r, out, state)
			return
		}

		result, err := s.oauth.Exchange(r.Context(), shop, code)
		if err != nil {
			log.Err(err).Str("shop", shop).Msg("token exchange failed")
			result = nil
		}

		out, state := s.flow.HandleCallback(r.Context(), result, state)
		s.applyOutcome(w, r, out, state)
	}
}

// LogoutHandler clears the materialized session (GET /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.sessionState(r)
		out, state := s.flow.Logout(r.Context(), state)
		s.applyOutcome(w, r, out, state)
	}
}

// applyOutcome translates a flow decision into the HTTP response: session
// cookie, marker cookie mutations, flash notice, then the body or redirect.
func (s *Server) applyOutcome(w http.ResponseWriter, r *http.Request, out authflow.Outcome, state sessionstate.State) {
	s.writeSessionState(w, r, state)

	if out.SetTopLevelMarker {
		setTopLevelCookie(w)
	}
	if out.ClearTopLevelMarker {
		clearTopLevelCookie(w)
	}
	setNotice(w, out.Notice)

	switch out.Kind {
	case authflow.KindRenderPage:
		s.renderOutcomePage(w, r, out, state)
	case authflow.KindInContextRedirect:
		http.Redirect(w, r, out.Location, http.StatusFound)
	case authflow.KindFullPageRedirect:
		s.redirectTopLevel(w, r, out.Location)
	}
}

func (s *Server) renderOutcomePage(w http.ResponseWriter, r *http.Request, out authflow.Outcome, state sessionstate.State) {
	switch out.Page {
	case authflow.PageEnableCookies:
		s.renderEnableCookiesPage(w, out.Shop, state)
	default:
		s.renderLoginPage(w, r, state)
	}
}

func (s *Server) renderLoginPage(w http.ResponseWriter, r *http.Request, state sessionstate.State) {
	data := LoginPageData{
		AppName:   s.config.GetAppName(),
		Notice:    popNotice(w, r),
		CSRFToken: state.CSRFToken,
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.loginTmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
	}
}

func (s *Server) renderEnableCookiesPage(w http.ResponseWriter, shop string, state sessionstate.State) {
	data := EnableCookiesPageData{
		AppName:   s.config.GetAppName(),
		Shop:      shop,
		CSRFToken: state.CSRFToken,
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.enableCookiesTmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render enable_cookies template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// redirectTopLevel escapes the platform iframe by navigating the top window.
// Outside an embedded context a plain redirect does the same job.
func (s *Server) redirectTopLevel(w http.ResponseWriter, r *http.Request, location string) {
	if !s.config.EmbeddedAppEnabled() {
		http.Redirect(w, r, location, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := s.topRedirectTmpl.Execute(w, TopRedirectData{Location: location}); err != nil {
		log.Err(err).Msg("Failed to render top_redirect template")
		http.Error(w, "Failed to render redirect page", http.StatusInternalServerError)
	}
}

func validCSRF(state sessionstate.State, token string) bool {
	if token == "" || state.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(state.CSRFToken)) == 1
}
