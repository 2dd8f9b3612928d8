// Spotify Web API client and [auth.Provider] implementation.
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/auth"
	"github.com/project57/simrai/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// requestTimeout bounds outbound calls so a stalled provider round trip
	// fails like a rejection instead of hanging a request goroutine.
	requestTimeout = 10 * time.Second
)

// spotifyScopes is the fixed scope set requested on login.
var spotifyScopes = []string{
	"user-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyPlaylist represents a playlist returned by creation or lookup.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Public       bool         `json:"public"`
	URI          string       `json:"uri"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// URL returns the playlist's public web URL.
func (p *SpotifyPlaylist) URL() string {
	return p.ExternalURLs.Spotify
}

// SpotifyService is a multi-user Spotify Web API client. It implements
// [auth.Provider] for the OAuth flow and exposes playlist and profile
// operations that take the caller's bearer token explicitly.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

var _ auth.Provider = (*SpotifyService)(nil)

// NewSpotifyService creates a Spotify client from the given credentials.
// Returns an error when client ID or secret are missing.
func NewSpotifyService(cfg shared.SpotifyConfig, client *http.Client, logger *log.Logger) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8000/auth/callback"
	}

	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: client,
		baseURL:    spotifyBaseURL,
		logger:     logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthorizationURL returns the login URL embedding the anti-CSRF state.
// show_dialog forces the consent screen so switching accounts works.
func (s *SpotifyService) AuthorizationURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ExchangeCode exchanges an authorization code for credentials.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*auth.Credentials, error) {
	ctx = s.oauthContext(ctx)
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return credentialsFromToken(token), nil
}

// RefreshCredentials obtains fresh credentials from a refresh token. The
// returned RefreshToken is empty when Spotify does not rotate it.
func (s *SpotifyService) RefreshCredentials(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
	ctx = s.oauthContext(ctx)
	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	creds := credentialsFromToken(token)
	if token.RefreshToken == refreshToken {
		// Not rotated; let the caller keep its stored copy.
		creds.RefreshToken = ""
	}
	return creds, nil
}

// FetchUserID resolves the stable Spotify user ID behind an access token.
func (s *SpotifyService) FetchUserID(ctx context.Context, accessToken string) (string, error) {
	user, err := s.UserProfile(ctx, accessToken)
	if err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("%w: profile response missing user id", shared.ErrAPIRequest)
	}
	return user.ID, nil
}

// oauthContext pins the oauth2 machinery to our HTTP client so exchange and
// refresh calls share its timeout.
func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func credentialsFromToken(token *oauth2.Token) *auth.Credentials {
	return &auth.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}

// doRequest performs an authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, accessToken, method, endpoint string, body any, result any) error {
	if accessToken == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrUnauthenticated)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d on %s", shared.ErrAPIRequest, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the profile of the user the token belongs to.
func (s *SpotifyService) UserProfile(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, accessToken, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks searches for tracks by free-text query. Limit is clamped to
// Spotify's 1..50 range.
func (s *SpotifyService) SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]SpotifyTrack, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, accessToken, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return response.Tracks.Items, nil
}

// CreatePlaylist creates a playlist in the given user's account.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string, public bool) (*SpotifyPlaylist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddTracks appends track URIs to a playlist and returns the new snapshot ID.
// Spotify accepts at most 100 URIs per request.
func (s *SpotifyService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if len(uris) == 0 {
		return "", fmt.Errorf("%w: no track URIs provided", shared.ErrInvalidInput)
	}
	if len(uris) > 100 {
		return "", fmt.Errorf("%w: maximum 100 track URIs per request", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string]any{"uris": uris}

	var response struct {
		SnapshotID string `json:"snapshot_id"`
	}

	if err := s.doRequest(ctx, accessToken, http.MethodPost, endpoint, body, &response); err != nil {
		return "", err
	}

	return response.SnapshotID, nil
}
