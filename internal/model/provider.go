package model

// ProviderClaims are the identity claims yielded by an external
// provider's completed handshake.
type ProviderClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Provider   LoginProvider
}
