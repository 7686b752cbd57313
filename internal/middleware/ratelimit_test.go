package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAuthBucketIsTighter(t *testing.T) {
	m := NewRateLimitMiddleware(100, 2)
	handler := m.Handler(okHandler())

	hit := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("/api/v1/auth/login"))
	require.Equal(t, http.StatusOK, hit("/api/v1/auth/login"))
	require.Equal(t, http.StatusTooManyRequests, hit("/api/v1/auth/login"))

	// The general bucket is untouched by auth traffic.
	require.Equal(t, http.StatusOK, hit("/api/v1/events"))
}

func TestRateLimitAppliesToProviderFlow(t *testing.T) {
	m := NewRateLimitMiddleware(100, 1)
	handler := m.Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/oauth2/google", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitHealthExempt(t *testing.T) {
	m := NewRateLimitMiddleware(1, 1)
	handler := m.Handler(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.3:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	m := NewRateLimitMiddleware(100, 1)
	handler := m.Handler(okHandler())

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.4:1000"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.4:1000"))
	require.Equal(t, http.StatusOK, hit("10.0.0.5:1000"))
}
