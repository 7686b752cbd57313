package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-event-planner/internal/model"
)

func TestCookieWriteReadRoundTrip(t *testing.T) {
	cookies := NewCookieManager(true)

	rec := httptest.NewRecorder()
	cookies.Write(rec, "token-value")

	written := rec.Result().Cookies()
	require.Len(t, written, 1)
	require.Equal(t, SessionCookieName, written[0].Name)
	require.Equal(t, "/", written[0].Path)
	require.True(t, written[0].HttpOnly)
	require.True(t, written[0].Secure)
	// Session cookie: no explicit expiry.
	require.Equal(t, 0, written[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(written[0])

	token, err := cookies.Read(req)
	require.NoError(t, err)
	require.Equal(t, "token-value", token)
}

func TestCookieReadStripsBearerPrefix(t *testing.T) {
	cookies := NewCookieManager(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "Bearer=token-value"})

	token, err := cookies.Read(req)
	require.NoError(t, err)
	require.Equal(t, "token-value", token)
}

func TestCookieReadMissing(t *testing.T) {
	cookies := NewCookieManager(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := cookies.Read(req)
	require.ErrorIs(t, err, model.ErrNoSessionCookie)
}

func TestCookieDeleteOverwrites(t *testing.T) {
	cookies := NewCookieManager(true)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token-value"})

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Delete(req, rec))

	written := rec.Result().Cookies()
	require.Len(t, written, 1)
	require.Equal(t, SessionCookieName, written[0].Name)
	require.Empty(t, written[0].Value)
	require.Negative(t, written[0].MaxAge)

	// Deleting again against the same request is not an error; the cookie
	// is still on the request even though the response clears it.
	rec2 := httptest.NewRecorder()
	require.NoError(t, cookies.Delete(req, rec2))
	require.Negative(t, rec2.Result().Cookies()[0].MaxAge)
}

func TestCookieDeleteWithoutCookieFails(t *testing.T) {
	cookies := NewCookieManager(true)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	err := cookies.Delete(req, rec)
	require.ErrorIs(t, err, model.ErrCookieNotFound)
	require.Empty(t, rec.Result().Cookies())
}
