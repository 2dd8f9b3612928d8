package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/auth"
	"github.com/project57/simrai/internal/services"
	"github.com/project57/simrai/internal/shared"
)

// SpotifyAPI is the slice of the Spotify client the handlers need.
// [services.SpotifyService] implements it.
type SpotifyAPI interface {
	UserProfile(ctx context.Context, accessToken string) (*services.SpotifyUser, error)
	SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]services.SpotifyTrack, error)
	CreatePlaylist(ctx context.Context, accessToken, userID, name, description string, public bool) (*services.SpotifyPlaylist, error)
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) (string, error)
}

// AccessTokenSource yields a valid access token for a user, refreshing if
// needed. [auth.Refresher] implements it.
type AccessTokenSource interface {
	GetValidAccessToken(ctx context.Context, userID string) (string, error)
}

// AuthHandlerOpts configures an [AuthHandler].
type AuthHandlerOpts struct {
	Coordinator   *auth.Coordinator
	Tokens        AccessTokenSource
	Spotify       SpotifyAPI
	CookieName    string
	WebOrigin     string // origin the popup pages postMessage to
	SecureCookies bool
	Logger        *log.Logger
}

// AuthHandler serves the OAuth flow endpoints: login redirect, provider
// callback, profile lookup, and unlink.
type AuthHandler struct {
	coordinator   *auth.Coordinator
	tokens        AccessTokenSource
	spotify       SpotifyAPI
	cookieName    string
	webOrigin     string
	secureCookies bool
	logger        *log.Logger
}

// NewAuthHandler creates an AuthHandler from its options.
func NewAuthHandler(opts AuthHandlerOpts) *AuthHandler {
	if opts.CookieName == "" {
		opts.CookieName = "simrai_session"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &AuthHandler{
		coordinator:   opts.Coordinator,
		tokens:        opts.Tokens,
		spotify:       opts.Spotify,
		cookieName:    opts.CookieName,
		webOrigin:     opts.WebOrigin,
		secureCookies: opts.SecureCookies,
		logger:        opts.Logger,
	}
}

// Routes returns the mux patterns this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /auth/login",
		"GET /auth/callback",
		"GET /api/me",
		"POST /api/unlink",
	}
}

// ServeHTTP dispatches to the endpoint implementations.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		h.login(w, r)
	case "/auth/callback":
		h.callback(w, r)
	case "/api/me":
		h.me(w, r)
	case "/api/unlink":
		h.unlink(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login starts the authorization-code flow with a fresh state token.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	url := h.coordinator.BeginLogin()
	http.Redirect(w, r, url, http.StatusFound)
}

// callback completes the flow. Every outcome renders a popup page; the
// page's postMessage signal is pinned to the configured web origin.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		h.logger.Infof("authorization denied: %s %s", errParam, desc)
		deniedPage(w, fmt.Sprintf("Spotify reported: %s", errParam), h.webOrigin)
		return
	}

	code := query.Get("code")
	state := query.Get("state")

	sessionID, err := h.coordinator.HandleCallback(r.Context(), code, state)
	switch {
	case errors.Is(err, shared.ErrUnknownState), errors.Is(err, shared.ErrExpiredState):
		securityErrorPage(w, "Invalid OAuth state. Please restart the connection flow.")
		return
	case errors.Is(err, shared.ErrTokenExchangeFailed):
		if code == "" {
			connectionErrorPage(w, "No authorization code received from Spotify.")
		} else {
			connectionErrorPage(w, "Failed to exchange authorization code. Please try again.")
		}
		return
	case err != nil:
		h.logger.Errorf("oauth callback failed: %v", err)
		connectionErrorPage(w, "Connecting your Spotify account failed. Please try again.")
		return
	}

	http.SetCookie(w, h.sessionCookie(sessionID, 0))
	connectedPage(w, h.webOrigin)
}

// me returns the Spotify profile of the session user.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	token, err := h.tokens.GetValidAccessToken(r.Context(), userID)
	if err != nil {
		h.writeTokenError(w, err)
		return
	}

	profile, err := h.spotify.UserProfile(r.Context(), token)
	if err != nil {
		jsonError(w, http.StatusBadGateway, "Spotify request failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// unlink disconnects the account and clears the session cookie. The cookie
// is cleared regardless of whether credential deletion succeeded.
func (h *AuthHandler) unlink(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "No active session")
		return
	}

	unlinkErr := h.coordinator.Unlink(cookie.Value)
	http.SetCookie(w, h.sessionCookie("", -1))

	switch {
	case errors.Is(unlinkErr, shared.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, "No active session")
	case unlinkErr != nil:
		jsonError(w, http.StatusInternalServerError, "Failed to unlink Spotify account")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "unlinked"})
	}
}

// sessionUser resolves the session cookie, writing a 401 on failure.
func (h *AuthHandler) sessionUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "No active session")
		return "", false
	}

	userID, err := h.coordinator.WhoAmI(cookie.Value)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "No active session")
		return "", false
	}

	return userID, true
}

func (h *AuthHandler) writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, "Spotify account not connected")
	case errors.Is(err, shared.ErrRefreshFailed):
		jsonError(w, http.StatusUnauthorized, "Spotify connection lost, please reconnect")
	default:
		jsonError(w, http.StatusInternalServerError, "Credential storage failure")
	}
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
