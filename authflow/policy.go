package authflow

// CookieCheck is the cookie-access policy decision.
type CookieCheck int

const (
	SkipCookieCheck CookieCheck = iota
	RequiresCookieCheck
)

// CookieAccess decides whether the browser must first prove third-party
// cookie access via the same-origin enable-cookies page. Pure function of
// its three inputs.
//
// Outside embedded mode cookie access is irrelevant. A request already at
// top level, or a session that recorded persisting cookies, skips the check.
// Anything else may be an iframe with blocked third-party cookies.
func CookieAccess(embedded, topLevelRequested, cookiesPersist bool) CookieCheck {
	if !embedded {
		return SkipCookieCheck
	}
	if topLevelRequested {
		return SkipCookieCheck
	}
	if cookiesPersist {
		return SkipCookieCheck
	}
	return RequiresCookieCheck
}
