package server_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopframe/go-shop-auth/authflow"
	"github.com/shopframe/go-shop-auth/authflow/flowfakes"
	"github.com/shopframe/go-shop-auth/internal/config"
	"github.com/shopframe/go-shop-auth/provider"
	"github.com/shopframe/go-shop-auth/server"
	"github.com/shopframe/go-shop-auth/sessionstate"
)

const (
	testAPIKey        = "test-api-key"
	testAPISecret     = "test-api-secret"
	testSessionSecret = "test-session-secret"
	testDomainSuffix  = ".example.com"
)

// testFixture holds everything a handler test needs to drive the server.
type testFixture struct {
	server *server.Server
	store  *flowfakes.FakeSessionStore
	queue  *flowfakes.FakeInstallQueue
	codec  *sessionstate.Codec
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	t.Setenv("SHOP_API_KEY", testAPIKey)
	t.Setenv("SHOP_API_SECRET", testAPISecret)
	t.Setenv("SESSION_SECRET", testSessionSecret)
	t.Setenv("SHOP_DOMAIN_SUFFIX", testDomainSuffix)
	t.Setenv("ENV", "TEST")

	cfg := config.New()
	store := flowfakes.NewFakeSessionStore()
	queue := flowfakes.NewFakeInstallQueue()

	flow := authflow.NewService(authflow.Config{
		EmbeddedApp:      cfg.EmbeddedAppEnabled(),
		ShopDomainSuffix: cfg.GetShopDomainSuffix(),
		RootURL:          cfg.GetRootURL(),
	}, store, queue, nil)

	codec := sessionstate.NewCodec(cfg.GetSessionSecret())
	oauth := provider.New(cfg.GetAPIKey(), cfg.GetAPISecret(), cfg.GetOAuthScopes(),
		cfg.GetBaseURL()+server.RouteOAuthCallback, cfg.GetSessionSecret())

	srv, err := server.New(cfg, flow, codec, oauth)
	require.NoError(t, err)

	return &testFixture{server: srv, store: store, queue: queue, codec: codec}
}

func (f *testFixture) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) sessionCookie(t *testing.T, state sessionstate.State) *http.Cookie {
	t.Helper()
	value, err := f.codec.Encode(state)
	require.NoError(t, err)
	return &http.Cookie{Name: "shop_session", Value: value}
}

func (f *testFixture) decodeSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) sessionstate.State {
	t.Helper()
	c := responseCookie(rec, "shop_session")
	require.NotNil(t, c, "expected a session cookie on the response")
	state, ok := f.codec.Decode(c.Value)
	require.True(t, ok, "session cookie should decode")
	return state
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func TestLoginPage_RendersForm(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/login")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="shop"`)
	require.Contains(t, rec.Body.String(), `name="csrf_token"`)

	state := f.decodeSessionCookie(t, rec)
	require.NotEmpty(t, state.CSRFToken)
	require.Contains(t, rec.Body.String(), state.CSRFToken)
}

func TestLogin_FirstVisitDetoursToEnableCookies(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/login?shop=shop1")

	// Embedded app without confirmed cookie access escapes to the detour
	// page via a top-window redirect.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "window.top.location")
	require.Contains(t, rec.Body.String(), "/enable_cookies?shop=shop1.example.com")
}

func TestLogin_TopLevelEscapeAfterCookiesConfirmed(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{ID: "s1", CookiesPersist: true})

	rec := f.get(t, "/login?shop=shop1", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/login?top_level=true")
	require.Contains(t, rec.Body.String(), "shop1.example.com")

	marker := responseCookie(rec, "shop_top_level")
	require.NotNil(t, marker)
	require.Positive(t, marker.MaxAge)

	state := f.decodeSessionCookie(t, rec)
	require.True(t, state.TopLevelOAuthDone)
	require.Equal(t, "shop1.example.com", state.ShopDomain)
}

func TestLogin_TopLevelRequestProceedsToProvider(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{ID: "s1", CookiesPersist: true, TopLevelOAuthDone: true})

	rec := f.get(t, "/login?shop=shop1&top_level=true", cookie)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/auth/shopify?shop=shop1.example.com", rec.Header().Get("Location"))

	marker := responseCookie(rec, "shop_top_level")
	require.NotNil(t, marker)
	require.Negative(t, marker.MaxAge)
}

func TestLogin_InvalidShopRedirectsWithNotice(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/login?shop=not%20a%20shop")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	notice := responseCookie(rec, "shop_notice")
	require.NotNil(t, notice)
	require.NotEmpty(t, notice.Value)
}

func TestLoginSubmission_RejectsMissingCSRF(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{ID: "s1", CSRFToken: "tok-1"})

	rec := f.postForm(t, "/login", url.Values{"shop": {"shop1"}}, cookie)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginSubmission_AcceptsMatchingCSRF(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{ID: "s1", CSRFToken: "tok-1", CookiesPersist: true})

	form := url.Values{"shop": {"shop1"}, "csrf_token": {"tok-1"}}
	rec := f.postForm(t, "/login", form, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/login?top_level=true")
	require.Contains(t, rec.Body.String(), "shop1.example.com")
}

func TestEnableCookies_RendersProbePage(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/enable_cookies?shop=shop1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `value="shop1.example.com"`)
	require.Contains(t, rec.Body.String(), "cookie_probe")
}

func TestConfirmCookies_RecordsPersistence(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{ID: "s1", CSRFToken: "tok-1"})

	form := url.Values{"shop": {"shop1"}, "csrf_token": {"tok-1"}}
	rec := f.postForm(t, "/enable_cookies", form, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/login?shop=shop1.example.com")

	state := f.decodeSessionCookie(t, rec)
	require.True(t, state.CookiesPersist)
}

func TestOAuthStart_RedirectsToProviderConsent(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/auth/shopify?shop=shop1.example.com")

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "https://shop1.example.com/admin/oauth/authorize"), location)
	require.Contains(t, location, "client_id="+testAPIKey)
	require.Contains(t, location, "state=")

	state := f.decodeSessionCookie(t, rec)
	require.Equal(t, "shop1.example.com", state.ShopDomain)
}

func TestOAuthStart_InvalidShop(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/auth/shopify?shop=..")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestOAuthCallback_ProviderDenied(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/auth/shopify/callback?shop=shop1.example.com&error=access_denied")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Empty(t, f.store.Records)

	notice := responseCookie(rec, "shop_notice")
	require.NotNil(t, notice)
}

func TestOAuthCallback_ForgedState(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/auth/shopify/callback?shop=shop1.example.com&code=abc&state=forged")

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Empty(t, f.store.Records)
}

func TestLogout_ClearsSessionAndStore(t *testing.T) {
	f := setupTestFixture(t)
	cookie := f.sessionCookie(t, sessionstate.State{
		ID:           "s1",
		ShopDomain:   "shop1.example.com",
		SessionToken: "opaque-token",
	})

	rec := f.get(t, "/logout", cookie)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Contains(t, f.store.Deleted, "shop1.example.com")

	state := f.decodeSessionCookie(t, rec)
	require.Empty(t, state.ShopDomain)
	require.Empty(t, state.SessionToken)

	notice := responseCookie(rec, "shop_notice")
	require.NotNil(t, notice)
}

func TestHealthz(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get(t, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "shop_auth")
}

func TestFrameHeaders_AbsentOnEmbeddableRoutes(t *testing.T) {
	f := setupTestFixture(t)

	login := f.get(t, "/login")
	require.Empty(t, login.Header().Get("X-Frame-Options"))

	logout := f.get(t, "/logout")
	require.Equal(t, "SAMEORIGIN", logout.Header().Get("X-Frame-Options"))
}
