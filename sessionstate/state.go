package sessionstate

import "github.com/google/uuid"

// State is the typed per-browser session bag. It replaces arbitrary keyed
// session storage with named optional fields, serialized to a signed cookie
// by Codec. The zero value is a logged-out browser.
type State struct {
	// ID identifies this session incarnation. Materializing a login issues
	// a fresh ID (session fixation mitigation).
	ID string

	// ShopDomain is the validated shop the browser is authenticating, set
	// before the provider round-trip and kept after login.
	ShopDomain string

	// ReturnTo is the in-app address to land on after authentication.
	// Written only by the application itself, never from request params.
	ReturnTo string

	// TopLevelOAuthDone records that a top-level escape redirect already
	// happened, preventing infinite bouncing between iframe and top level.
	TopLevelOAuthDone bool

	// CookiesPersist records that the enable-cookies detour confirmed
	// third-party cookie access for this browser.
	CookiesPersist bool

	// SessionToken is the opaque reference returned by the session store in
	// place of the raw access token record.
	SessionToken string

	// UserID is the provider end user associated with the login, if any.
	UserID string

	// CSRFToken protects pre-auth form posts. Discarded on login.
	CSRFToken string
}

// Fresh returns a new empty session with its own identity and CSRF token.
func Fresh() State {
	return State{
		ID:        uuid.New().String(),
		CSRFToken: uuid.New().String(),
	}
}

// LoggedIn reports whether the session references a stored shop session.
func (s State) LoggedIn() bool {
	return s.SessionToken != "" && s.ShopDomain != ""
}
