package models

import (
	"testing"
)

func TestPlaylistValidate(t *testing.T) {
	cases := []struct {
		name    string
		userID  string
		spotify string
		title   string
		wantErr bool
	}{
		{"valid", "user-a", "sp1", "Rainy Mood", false},
		{"missing user id", "", "sp1", "Rainy Mood", true},
		{"missing spotify id", "user-a", "", "Rainy Mood", true},
		{"missing name", "user-a", "sp1", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			playlist := NewPlaylist(1, tc.userID, tc.spotify, tc.title)
			err := playlist.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewPlaylist(t *testing.T) {
	playlist := NewPlaylist(7, "user-a", "sp1", "Rainy Mood")

	if playlist.Sequence() != 7 {
		t.Errorf("sequence: %d", playlist.Sequence())
	}
	if playlist.CreatedAt().IsZero() || playlist.UpdatedAt().IsZero() {
		t.Error("timestamps should be initialized")
	}
	if playlist.DeletedAt() != nil {
		t.Error("new record should not be deleted")
	}
}
