package handler

import (
	"log/slog"
	"net/http"

	"go-event-planner/internal/oauth"
	"go-event-planner/internal/service"
	"go-event-planner/pkg/apierror"
)

// stateCookieName holds the CSRF state between the redirect to the
// provider and its callback.
const stateCookieName = "OAUTH_STATE"

type OAuthHandler struct {
	google        *oauth.GoogleClient
	auth          *service.AuthService
	secureCookies bool
	postLoginURL  string
}

func NewOAuthHandler(google *oauth.GoogleClient, auth *service.AuthService, secureCookies bool, postLoginURL string) *OAuthHandler {
	return &OAuthHandler{
		google:        google,
		auth:          auth,
		secureCookies: secureCookies,
		postLoginURL:  postLoginURL,
	}
}

// Login starts the authorization-code flow: bind a fresh state value to
// the browser and send it to the provider.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := oauth.NewState()
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the flow: check the state, trade the code for
// verified claims, establish the session and send the browser on to the
// event list.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		writeError(w, apierror.New("BAD_REQUEST", "state mismatch", "", http.StatusBadRequest))
		return
	}

	// The state is single use.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apierror.New("BAD_REQUEST", "missing authorization code", "", http.StatusBadRequest))
		return
	}

	claims, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		slog.Warn("provider exchange failed", "error", err.Error())
		writeError(w, apierror.New("UNAUTHORIZED", "external login failed", "", http.StatusUnauthorized))
		return
	}

	user, err := h.auth.LoginWithProvider(r.Context(), w, claims)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("external login", "user_id", user.ID, "provider", user.Provider)
	http.Redirect(w, r, h.postLoginURL, http.StatusFound)
}
