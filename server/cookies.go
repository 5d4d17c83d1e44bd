package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/shopframe/go-shop-auth/sessionstate"
)

const (
	sessionCookieName  = "shop_session"
	topLevelCookieName = "shop_top_level"
	noticeCookieName   = "shop_notice"

	topLevelCookieMaxAge = 300
)

// sessionState reads the signed session cookie. A missing, tampered or
// expired cookie yields a fresh state so callers never see a nil session.
func (s *Server) sessionState(r *http.Request) sessionstate.State {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return sessionstate.Fresh()
	}
	state, ok := s.codec.Decode(cookie.Value)
	if !ok {
		return sessionstate.Fresh()
	}
	return state
}

func (s *Server) writeSessionState(w http.ResponseWriter, r *http.Request, state sessionstate.State) {
	value, err := s.codec.Encode(state)
	if err != nil {
		log.Err(err).Msg("Failed to encode session state")
		return
	}
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.config.EmbeddedAppEnabled() {
		// Third-party context inside the platform iframe
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	} else if getScheme(r) == "https" {
		cookie.Secure = true
	}
	http.SetCookie(w, cookie)
}

// The top-level marker is readable by page script on purpose: the login
// page sets it before escaping the iframe so the next request can prove
// it already ran at top level.
func setTopLevelCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   topLevelCookieName,
		Value:  "1",
		Path:   "/",
		MaxAge: topLevelCookieMaxAge,
	})
}

func clearTopLevelCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   topLevelCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func hasTopLevelCookie(r *http.Request) bool {
	cookie, err := r.Cookie(topLevelCookieName)
	return err == nil && cookie.Value != ""
}

// Notices are one-shot flash messages carried across a redirect.
func setNotice(w http.ResponseWriter, notice string) {
	if notice == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    url.QueryEscape(notice),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

func popNotice(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(noticeCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	notice, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return notice
}
