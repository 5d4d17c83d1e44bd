// Package provider performs the OAuth authorization-code exchange with the
// hosting platform. Every shop has its own authorize/token endpoints under
// the shop's domain.
package provider

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/shopframe/go-shop-auth/internal/errors"
)

// User is the provider end user associated with an online-mode token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Result is what a completed exchange yields. Owned transiently by the
// callback handler and never logged.
type Result struct {
	Shop           string
	AccessToken    string
	Scope          string
	AssociatedUser *User
}

// Client drives the per-shop OAuth flow.
type Client struct {
	apiKey      string
	apiSecret   string
	scopes      []string
	redirectURL string
	states      *stateSigner
}

func New(apiKey, apiSecret string, scopes []string, redirectURL, stateSecret string) *Client {
	return &Client{
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		scopes:      scopes,
		redirectURL: redirectURL,
		states:      newStateSigner(stateSecret),
	}
}

func (c *Client) config(shop string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.apiKey,
		ClientSecret: c.apiSecret,
		Scopes:       c.scopes,
		RedirectURL:  c.redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   fmt.Sprintf("https://%s/admin/oauth/authorize", shop),
			TokenURL:  fmt.Sprintf("https://%s/admin/oauth/access_token", shop),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL builds the provider authorize URL for a shop, with a signed
// state parameter bound to that shop.
func (c *Client) AuthCodeURL(shop string) (authURL, state string) {
	state = c.states.New(shop)
	return c.config(shop).AuthCodeURL(state), state
}

// VerifyState checks that a callback state parameter was issued by us for
// this shop.
func (c *Client) VerifyState(shop, state string) bool {
	return c.states.Verify(shop, state)
}

// Exchange swaps an authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, shop, code string) (*Result, error) {
	token, err := c.config(shop).Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExchangeFailed, "shop %s", shop)
	}

	result := &Result{
		Shop:        shop,
		AccessToken: token.AccessToken,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		result.Scope = scope
	}
	result.AssociatedUser = associatedUser(token)
	return result, nil
}

// associatedUser pulls the optional end-user payload out of the token
// response. The provider sends the id as a JSON number.
func associatedUser(token *oauth2.Token) *User {
	raw, ok := token.Extra("associated_user").(map[string]interface{})
	if !ok {
		return nil
	}

	user := &User{}
	switch id := raw["id"].(type) {
	case string:
		user.ID = id
	case float64:
		user.ID = fmt.Sprintf("%.0f", id)
	}
	if email, ok := raw["email"].(string); ok {
		user.Email = email
	}
	if user.ID == "" && user.Email == "" {
		return nil
	}
	return user
}
