package service

import (
	"context"
	"net/http"

	"go-event-planner/internal/model"
)

// AuthService orchestrates the two login paths. Both terminate in the
// same token-issue and cookie-write step, so a session looks identical
// regardless of how it was established.
type AuthService struct {
	users    *UserService
	external *ExternalUserService
	tokens   *TokenService
	cookies  *CookieManager
}

func NewAuthService(users *UserService, external *ExternalUserService, tokens *TokenService, cookies *CookieManager) *AuthService {
	return &AuthService{users: users, external: external, tokens: tokens, cookies: cookies}
}

// LoginWithCredentials is the credential path: verify, then issue the
// session.
func (s *AuthService) LoginWithCredentials(ctx context.Context, w http.ResponseWriter, username string, password string) (model.User, error) {
	user, err := s.users.VerifyCredentials(ctx, username, password)
	if err != nil {
		return model.User{}, err
	}

	if err := s.issueSession(w, user.ID); err != nil {
		return model.User{}, err
	}
	return user.User, nil
}

// LoginWithProvider is the external path: the provider handshake has
// already yielded verified claims, so resolve-or-create the account and
// issue the session the same way.
func (s *AuthService) LoginWithProvider(ctx context.Context, w http.ResponseWriter, claims model.ProviderClaims) (model.ExternalUser, error) {
	user, err := s.external.ResolveOrCreate(ctx, claims)
	if err != nil {
		return model.ExternalUser{}, err
	}

	if err := s.issueSession(w, user.ID); err != nil {
		return model.ExternalUser{}, err
	}
	return user, nil
}

// Logout deletes the session cookie. It fails with ErrCookieNotFound when
// there is no session to log out of.
func (s *AuthService) Logout(r *http.Request, w http.ResponseWriter) error {
	return s.cookies.Delete(r, w)
}

func (s *AuthService) issueSession(w http.ResponseWriter, userID string) error {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return err
	}

	s.cookies.Write(w, token)
	return nil
}
