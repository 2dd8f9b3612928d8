package models

import (
	"fmt"
	"time"
)

// Playlist is the history record of a playlist created through the API.
type Playlist struct {
	id          string
	sequence    int
	userID      string
	spotifyID   string
	name        string
	description string
	public      bool
	url         string
	trackCount  int
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPlaylist creates a playlist history record for the given owner.
func NewPlaylist(sequence int, userID, spotifyID, name string) *Playlist {
	now := time.Now()
	return &Playlist{
		sequence:  sequence,
		userID:    userID,
		spotifyID: spotifyID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *Playlist) ID() string            { return p.id }
func (p *Playlist) Sequence() int         { return p.sequence }
func (p *Playlist) UserID() string        { return p.userID }
func (p *Playlist) SpotifyID() string     { return p.spotifyID }
func (p *Playlist) Name() string          { return p.name }
func (p *Playlist) Description() string   { return p.description }
func (p *Playlist) Public() bool          { return p.public }
func (p *Playlist) URL() string           { return p.url }
func (p *Playlist) TrackCount() int       { return p.trackCount }
func (p *Playlist) CreatedAt() time.Time  { return p.createdAt }
func (p *Playlist) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Playlist) DeletedAt() *time.Time { return p.deletedAt }

func (p *Playlist) SetID(id string)            { p.id = id }
func (p *Playlist) SetDescription(d string)    { p.description = d }
func (p *Playlist) SetPublic(public bool)      { p.public = public }
func (p *Playlist) SetURL(url string)          { p.url = url }
func (p *Playlist) SetTrackCount(n int)        { p.trackCount = n }
func (p *Playlist) SetCreatedAt(t time.Time)   { p.createdAt = t }
func (p *Playlist) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *Playlist) SetDeletedAt(t *time.Time)  { p.deletedAt = t }

// Validate checks required fields.
func (p *Playlist) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("playlist user_id is required")
	}
	if p.spotifyID == "" {
		return fmt.Errorf("playlist spotify_id is required")
	}
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}
