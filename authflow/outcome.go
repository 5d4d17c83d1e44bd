package authflow

// Page names a view the boundary layer knows how to render.
type Page int

const (
	PageNone Page = iota
	PageLogin
	PageEnableCookies
)

// OutcomeKind is the closed set of responses the resolver can produce. The
// boundary layer interprets them; the flow itself never touches HTTP.
type OutcomeKind int

const (
	// KindRenderPage renders a view in the current context.
	KindRenderPage OutcomeKind = iota
	// KindFullPageRedirect navigates the top-level window, breaking out of
	// any iframe.
	KindFullPageRedirect
	// KindInContextRedirect is an ordinary redirect in whatever context the
	// request arrived in.
	KindInContextRedirect
)

// Outcome is the resolver's decision for one request: what to respond with
// plus any cookie mutations.
type Outcome struct {
	Kind     OutcomeKind
	Location string // redirect target for the redirect kinds
	Page     Page   // view for KindRenderPage
	Shop     string // validated shop for page rendering

	// Top-level marker cookie mutations. Read by the host page's script to
	// detect iframe-escape completion.
	SetTopLevelMarker   bool
	ClearTopLevelMarker bool

	// Notice is a one-shot user-visible message carried across the redirect.
	Notice string

	// Err classifies a recoverable failure (ErrInvalidShop,
	// ErrProviderDenied). The outcome already encodes the safe handling.
	Err error
}

func renderPage(page Page, shop string) Outcome {
	return Outcome{Kind: KindRenderPage, Page: page, Shop: shop}
}

func fullPageRedirect(location string) Outcome {
	return Outcome{Kind: KindFullPageRedirect, Location: location}
}

func inContextRedirect(location string) Outcome {
	return Outcome{Kind: KindInContextRedirect, Location: location}
}
