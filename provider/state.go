package provider

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// stateSigner issues and verifies the OAuth state parameter. The state binds
// the shop it was issued for, so a callback for shop A cannot replay a state
// minted for shop B.
type stateSigner struct {
	secret []byte
}

func newStateSigner(secret string) *stateSigner {
	return &stateSigner{secret: []byte(secret)}
}

// New returns "<nonce>.<signature>" for the given shop.
func (s *stateSigner) New(shop string) string {
	nonce := generateRandomString(24)
	return nonce + "." + s.sign(shop, nonce)
}

// Verify checks a state parameter against the shop it should be bound to.
func (s *stateSigner) Verify(shop, state string) bool {
	nonce, sig, ok := strings.Cut(state, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.sign(shop, nonce)))
}

func (s *stateSigner) sign(shop, nonce string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(shop))
	mac.Write([]byte{0})
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
