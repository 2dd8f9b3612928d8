package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/auth"
	"github.com/project57/simrai/internal/models"
	"github.com/project57/simrai/internal/shared"
)

// PlaylistRecorder persists a history record for playlists created through
// the API. [repositories.PlaylistRepository] implements it.
type PlaylistRecorder interface {
	Create(playlist *models.Playlist) error
}

// PlaylistHandlerOpts configures a [PlaylistHandler].
type PlaylistHandlerOpts struct {
	Coordinator *auth.Coordinator
	Tokens      AccessTokenSource
	Spotify     SpotifyAPI
	Recorder    PlaylistRecorder
	CookieName  string
	Logger      *log.Logger
}

// PlaylistHandler serves the playlist endpoints: track search, playlist
// creation, and adding tracks. All endpoints require an active session with
// connected Spotify credentials.
type PlaylistHandler struct {
	coordinator *auth.Coordinator
	tokens      AccessTokenSource
	spotify     SpotifyAPI
	recorder    PlaylistRecorder
	cookieName  string
	logger      *log.Logger
}

// NewPlaylistHandler creates a PlaylistHandler from its options.
func NewPlaylistHandler(opts PlaylistHandlerOpts) *PlaylistHandler {
	if opts.CookieName == "" {
		opts.CookieName = "simrai_session"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &PlaylistHandler{
		coordinator: opts.Coordinator,
		tokens:      opts.Tokens,
		spotify:     opts.Spotify,
		recorder:    opts.Recorder,
		cookieName:  opts.CookieName,
		logger:      opts.Logger,
	}
}

// Routes returns the mux patterns this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /api/search",
		"POST /api/create-playlist",
		"POST /api/add-tracks",
	}
}

// ServeHTTP dispatches to the endpoint implementations.
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/search":
		h.search(w, r)
	case "/api/create-playlist":
		h.createPlaylist(w, r)
	case "/api/add-tracks":
		h.addTracks(w, r)
	default:
		http.NotFound(w, r)
	}
}

// accessToken resolves the session user and a fresh access token, writing
// the error response on failure.
func (h *PlaylistHandler) accessToken(w http.ResponseWriter, r *http.Request) (userID, token string, ok bool) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "No active session")
		return "", "", false
	}

	userID, err = h.coordinator.WhoAmI(cookie.Value)
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "No active session")
		return "", "", false
	}

	token, err = h.tokens.GetValidAccessToken(r.Context(), userID)
	if err != nil {
		h.writeTokenError(w, err)
		return "", "", false
	}

	return userID, token, true
}

// search proxies a track search to Spotify.
func (h *PlaylistHandler) search(w http.ResponseWriter, r *http.Request) {
	_, token, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, http.StatusBadRequest, "Missing search query")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	tracks, err := h.spotify.SearchTracks(r.Context(), token, query, limit)
	if err != nil {
		h.logger.Errorf("track search failed: %v", err)
		jsonError(w, http.StatusBadGateway, "Spotify request failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// createPlaylist creates a playlist on the user's Spotify account and records
// it in the local history.
func (h *PlaylistHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	profile, err := h.spotify.UserProfile(r.Context(), token)
	if err != nil {
		jsonError(w, http.StatusBadGateway, "Spotify request failed")
		return
	}

	created, err := h.spotify.CreatePlaylist(r.Context(), token, profile.ID, req.Name, req.Description, req.Public)
	if err != nil {
		h.logger.Errorf("playlist creation failed: %v", err)
		jsonError(w, http.StatusBadGateway, "Failed to create playlist")
		return
	}

	record := models.NewPlaylist(0, userID, created.ID, created.Name)
	record.SetDescription(req.Description)
	record.SetPublic(req.Public)
	record.SetURL(created.URL())
	if h.recorder != nil {
		if err := h.recorder.Create(record); err != nil {
			// The Spotify playlist exists; history is best effort.
			h.logger.Errorf("failed to record playlist %s: %v", created.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, created)
}

type addTracksRequest struct {
	PlaylistID string   `json:"playlist_id"`
	URIs       []string `json:"uris"`
}

// addTracks appends tracks to an existing playlist.
func (h *PlaylistHandler) addTracks(w http.ResponseWriter, r *http.Request) {
	_, token, ok := h.accessToken(w, r)
	if !ok {
		return
	}

	var req addTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlaylistID == "" {
		jsonError(w, http.StatusBadRequest, "Playlist ID is required")
		return
	}
	if len(req.URIs) == 0 {
		jsonError(w, http.StatusBadRequest, "No track URIs provided")
		return
	}

	snapshot, err := h.spotify.AddTracks(r.Context(), token, req.PlaylistID, req.URIs)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			jsonError(w, http.StatusBadRequest, "Too many track URIs")
			return
		}
		h.logger.Errorf("adding tracks to %s failed: %v", req.PlaylistID, err)
		jsonError(w, http.StatusBadGateway, "Failed to add tracks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"snapshot_id": snapshot})
}

func (h *PlaylistHandler) writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, "Spotify account not connected")
	case errors.Is(err, shared.ErrRefreshFailed):
		jsonError(w, http.StatusUnauthorized, "Spotify connection lost, please reconnect")
	default:
		jsonError(w, http.StatusInternalServerError, "Credential storage failure")
	}
}
