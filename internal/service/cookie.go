package service

import (
	"net/http"
	"strings"

	"go-event-planner/internal/model"
)

// SessionCookieName is the single cookie carrying the session token.
const SessionCookieName = "JWT"

// Some clients send the value prefixed the way the Authorization header
// would be; the prefix is stripped on read.
const bearerPrefix = "Bearer="

// CookieManager centralizes the session cookie attributes: path /,
// http-only, secure, session-scoped on write, max-age 0 on delete. If
// several cookies share the name, the first one wins.
type CookieManager struct {
	secure bool
}

func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{secure: secure}
}

func (m *CookieManager) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
	})
}

// Read returns the session token from the request. A missing cookie is
// the normal unauthenticated state, reported as ErrNoSessionCookie rather
// than treated as a failure.
func (m *CookieManager) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", model.ErrNoSessionCookie
	}

	return strings.TrimPrefix(cookie.Value, bearerPrefix), nil
}

// Delete overwrites the session cookie with max-age 0. Unlike Read, a
// missing cookie here is ErrCookieNotFound: an explicit logout without a
// session fails loudly.
func (m *CookieManager) Delete(r *http.Request, w http.ResponseWriter) error {
	if _, err := r.Cookie(SessionCookieName); err != nil {
		return model.ErrCookieNotFound
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		MaxAge:   -1,
	})
	return nil
}
