package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-event-planner/internal/model"
)

// TokenService issues and validates the signed session tokens carried in
// the JWT cookie. Tokens are HS256 compact JWTs with sub, iat and exp
// claims only; there is no server-side revocation, a token dies by cookie
// deletion or expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token whose subject is the principal id, valid for the
// configured ttl from now.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the subject id. The
// signature is checked before any claim is trusted; a bad structure or
// signature is ErrTokenMalformed, a good signature past exp is
// ErrTokenExpired.
func (s *TokenService) Validate(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", model.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", model.ErrTokenExpired
		default:
			return "", model.ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", model.ErrTokenMalformed
	}

	return claims.Subject, nil
}

// ExtractSubject reads the subject without verifying the token. For
// logging and diagnostics only; authorization decisions go through
// Validate.
func (s *TokenService) ExtractSubject(tokenString string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	if err != nil {
		return "", model.ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", model.ErrTokenMalformed
	}

	return claims.Subject, nil
}
