package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"go-event-planner/internal/model"
)

const googleIssuer = "https://accounts.google.com"

// GoogleClient runs the provider side of the external login path: the
// authorization-code handshake and ID-token verification. What comes out
// is a set of verified subject claims; session issuance stays with the
// auth service.
type GoogleClient struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleClient discovers the issuer's endpoints and builds the code
// flow configuration.
func NewGoogleClient(ctx context.Context, clientID string, clientSecret string, redirectURL string) (*GoogleClient, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &GoogleClient{
		config:   config,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthCodeURL returns the provider URL to redirect the browser to.
func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades the callback code for tokens, verifies the ID token
// against the issuer keys and returns the identity claims.
func (c *GoogleClient) Exchange(ctx context.Context, code string) (model.ProviderClaims, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return model.ProviderClaims{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return model.ProviderClaims{}, fmt.Errorf("token response is missing id_token")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.ProviderClaims{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return model.ProviderClaims{}, fmt.Errorf("decode id token claims: %w", err)
	}

	return model.ProviderClaims{
		Subject:    idToken.Subject,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Provider:   model.ProviderGoogle,
	}, nil
}

// NewState returns a random value binding the redirect to its callback.
func NewState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
