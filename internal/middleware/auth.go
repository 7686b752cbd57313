package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"go-event-planner/internal/model"
)

type tokenValidator interface {
	Validate(tokenString string) (string, error)
}

type principalResolver interface {
	GetByID(ctx context.Context, id string) (model.Principal, error)
}

type sessionCookies interface {
	Read(r *http.Request) (string, error)
	Delete(r *http.Request, w http.ResponseWriter) error
}

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the authenticated identity the gate attaches to a request.
type Session struct {
	Principal model.Principal
	ClientIP  string
}

// AuthMiddleware is the per-request authentication gate. Authenticate
// runs on every route and never blocks the chain; RequireAuth is the
// downstream authorization check for routes that need an identity.
type AuthMiddleware struct {
	tokens  tokenValidator
	users   principalResolver
	cookies sessionCookies
}

func NewAuthMiddleware(tokens tokenValidator, users principalResolver, cookies sessionCookies) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, cookies: cookies}
}

// Authenticate walks the token through validation and principal
// resolution. No cookie means anonymous with no store calls. A present
// token is always fully validated (signature then expiry) before the
// subject is trusted; any failure clears the cookie and the request
// continues anonymous, so public routes stay reachable.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.cookies.Read(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.tokens.Validate(token)
		if err != nil {
			m.reject(w, r, next, "session token rejected", err)
			return
		}

		principal, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			m.reject(w, r, next, "session subject not resolvable", err)
			return
		}

		session := &Session{Principal: principal, ClientIP: extractClientIP(r)}
		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, next http.Handler, msg string, err error) {
	slog.Debug(msg, "error", err)
	_ = m.cookies.Delete(r, w)
	next.ServeHTTP(w, r)
}

// RequireAuth rejects requests the gate left anonymous.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	return session, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: "authentication required",
		},
	})
}
