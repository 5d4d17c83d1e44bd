package sessionstate

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// sessionLifetime bounds how long a state cookie stays decodable. The
// browser session usually ends sooner; this is the hard ceiling.
const sessionLifetime = 24 * time.Hour

// Codec signs session state into a compact JWT carried by a cookie and
// verifies it back. A cookie that fails verification decodes to the zero
// State so a tampered or expired session simply looks logged out.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

type stateClaims struct {
	ShopDomain        string `json:"shop,omitempty"`
	ReturnTo          string `json:"return_to,omitempty"`
	TopLevelOAuthDone bool   `json:"top_level_oauth,omitempty"`
	CookiesPersist    bool   `json:"cookies_persist,omitempty"`
	SessionToken      string `json:"session_token,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	CSRFToken         string `json:"csrf,omitempty"`
	jwtlib.RegisteredClaims
}

// Encode serializes and signs a session state.
func (c *Codec) Encode(state State) (string, error) {
	now := NowTimeFunc()
	claims := stateClaims{
		ShopDomain:        state.ShopDomain,
		ReturnTo:          state.ReturnTo,
		TopLevelOAuthDone: state.TopLevelOAuthDone,
		CookiesPersist:    state.CookiesPersist,
		SessionToken:      state.SessionToken,
		UserID:            state.UserID,
		CSRFToken:         state.CSRFToken,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        state.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(sessionLifetime)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session state: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns the session state it carries.
// Any verification failure returns a zero State and false.
func (c *Codec) Decode(value string) (State, bool) {
	if value == "" {
		return State{}, false
	}

	var claims stateClaims
	token, err := jwtlib.ParseWithClaims(value, &claims, func(t *jwtlib.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
	)
	if err != nil || !token.Valid {
		return State{}, false
	}

	return State{
		ID:                claims.RegisteredClaims.ID,
		ShopDomain:        claims.ShopDomain,
		ReturnTo:          claims.ReturnTo,
		TopLevelOAuthDone: claims.TopLevelOAuthDone,
		CookiesPersist:    claims.CookiesPersist,
		SessionToken:      claims.SessionToken,
		UserID:            claims.UserID,
		CSRFToken:         claims.CSRFToken,
	}, true
}
