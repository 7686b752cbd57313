package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-event-planner/internal/model"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, *UserService) {
	t.Helper()

	backing := newMemBacking()
	bus := &fakeBus{}
	users := NewUserService(
		&memUserStore{m: backing},
		&memInternalStore{m: backing},
		&memExternalStore{m: backing},
		bus,
	)
	external := NewExternalUserService(&memUserStore{m: backing}, &memExternalStore{m: backing}, bus)

	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	return NewAuthService(users, external, tokens, NewCookieManager(true)), users
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginWithCredentialsIssuesSession(t *testing.T) {
	auth, users := newAuthServiceForTest(t)
	registered := registerTestUser(t, users, "jane")

	rec := httptest.NewRecorder()
	user, err := auth.LoginWithCredentials(context.Background(), rec, "jane", "passw0rd")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	cookie := sessionCookieFrom(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	// The cookie's token must validate back to the same subject.
	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	subject, err := tokens.Validate(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, registered.ID, subject)
}

func TestLoginWithCredentialsRejectsBadPassword(t *testing.T) {
	auth, users := newAuthServiceForTest(t)
	registerTestUser(t, users, "jane")

	rec := httptest.NewRecorder()
	_, err := auth.LoginWithCredentials(context.Background(), rec, "jane", "wrong-pass1")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	require.Empty(t, rec.Result().Cookies())
}

func TestLoginWithProviderIssuesSession(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	rec := httptest.NewRecorder()
	user, err := auth.LoginWithProvider(context.Background(), rec, model.ProviderClaims{
		Subject:    "google-sub-1",
		Email:      "jane@gmail.com",
		GivenName:  "Jane",
		FamilyName: "Doe",
		Provider:   model.ProviderGoogle,
	})
	require.NoError(t, err)
	require.Equal(t, "jane", user.Username)
	require.Equal(t, []string{"ROLE_LOGGED_USER"}, user.Authorities())

	cookie := sessionCookieFrom(t, rec)
	require.NotEmpty(t, cookie.Value)
}

func TestLogout(t *testing.T) {
	auth, _ := newAuthServiceForTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	require.NoError(t, auth.Logout(req, rec))

	cookie := sessionCookieFrom(t, rec)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)

	// Without a session cookie logout fails instead of silently passing.
	bare := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	err := auth.Logout(bare, httptest.NewRecorder())
	require.ErrorIs(t, err, model.ErrCookieNotFound)
}
