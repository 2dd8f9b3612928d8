package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/project57/simrai/internal/models"
	"github.com/project57/simrai/internal/shared"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupDB(t)

	first, err := NextSequence(db, "playlists")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NextSequence(db, "playlists")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second != first+1 {
		t.Errorf("sequence not monotonic: %d then %d", first, second)
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("assigns an id and persists the record", func(t *testing.T) {
			repo := NewPlaylistRepository(setupDB(t))

			playlist := models.NewPlaylist(0, "user-a", "sp1", "Rainy Mood")
			playlist.SetDescription("for rainy days")
			playlist.SetURL("https://open.spotify.com/playlist/sp1")

			if err := repo.Create(playlist); err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if playlist.ID() == "" {
				t.Error("expected generated id")
			}

			got, err := repo.Get(playlist.ID())
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if got.Name() != "Rainy Mood" || got.UserID() != "user-a" || got.SpotifyID() != "sp1" {
				t.Errorf("unexpected record: %s %s %s", got.Name(), got.UserID(), got.SpotifyID())
			}
			if got.Description() != "for rainy days" {
				t.Errorf("description not persisted: %q", got.Description())
			}
		})

		t.Run("rejects an invalid record", func(t *testing.T) {
			repo := NewPlaylistRepository(setupDB(t))

			playlist := models.NewPlaylist(0, "", "sp1", "Rainy Mood")
			if err := repo.Create(playlist); err == nil {
				t.Error("expected validation error for missing user id")
			}
		})
	})

	t.Run("Get returns ErrPlaylistNotFound for unknown id", func(t *testing.T) {
		repo := NewPlaylistRepository(setupDB(t))
		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewPlaylistRepository(setupDB(t))

		playlist := models.NewPlaylist(0, "user-a", "sp1", "Rainy Mood")
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		playlist.SetTrackCount(12)
		if err := repo.Update(playlist); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		got, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.TrackCount() != 12 {
			t.Errorf("track count not persisted: %d", got.TrackCount())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewPlaylistRepository(setupDB(t))

		playlist := models.NewPlaylist(0, "user-a", "sp1", "Rainy Mood")
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if err := repo.Delete(playlist.ID()); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		t.Run("soft-deleted records are invisible", func(t *testing.T) {
			if _, err := repo.Get(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})

		t.Run("double delete fails", func(t *testing.T) {
			if err := repo.Delete(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		repo := NewPlaylistRepository(setupDB(t))

		for _, row := range []struct{ user, spotifyID, name string }{
			{"user-a", "sp1", "First"},
			{"user-a", "sp2", "Second"},
			{"user-b", "sp3", "Other"},
		} {
			playlist := models.NewPlaylist(0, row.user, row.spotifyID, row.name)
			if err := repo.Create(playlist); err != nil {
				t.Fatalf("create failed: %v", err)
			}
		}

		t.Run("filters by user", func(t *testing.T) {
			playlists, err := repo.List(map[string]any{"user_id": "user-a"})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[0].Name() != "First" || playlists[1].Name() != "Second" {
				t.Errorf("unexpected order: %s, %s", playlists[0].Name(), playlists[1].Name())
			}
		})

		t.Run("no criteria returns everything", func(t *testing.T) {
			playlists, err := repo.List(nil)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(playlists) != 3 {
				t.Errorf("expected 3 playlists, got %d", len(playlists))
			}
		})
	})
}
