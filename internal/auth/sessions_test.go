package auth

import (
	"errors"
	"testing"

	"github.com/project57/simrai/internal/shared"
)

func TestSessionRegistry(t *testing.T) {
	t.Run("Create and Resolve", func(t *testing.T) {
		registry := NewSessionRegistry(nil)
		sessionID := registry.Create("user-a")

		if sessionID == "" {
			t.Fatal("expected non-empty session id")
		}

		userID, err := registry.Resolve(sessionID)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if userID != "user-a" {
			t.Errorf("expected user-a, got %s", userID)
		}
	})

	t.Run("two sessions for one user resolve independently", func(t *testing.T) {
		registry := NewSessionRegistry(nil)
		first := registry.Create("user-a")
		second := registry.Create("user-a")

		if first == second {
			t.Fatal("expected distinct session ids")
		}

		registry.Destroy(first)

		if _, err := registry.Resolve(first); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("destroyed session should not resolve, got %v", err)
		}
		if userID, err := registry.Resolve(second); err != nil || userID != "user-a" {
			t.Errorf("sibling session should survive, got %s, %v", userID, err)
		}
	})

	t.Run("Resolve failure shapes are indistinguishable", func(t *testing.T) {
		registry := NewSessionRegistry(nil)

		unknown := registry.Create("user-a")
		registry.Destroy(unknown)

		for _, sessionID := range []string{"", "never-issued", unknown} {
			_, err := registry.Resolve(sessionID)
			if !errors.Is(err, shared.ErrUnauthenticated) {
				t.Errorf("Resolve(%q): expected ErrUnauthenticated, got %v", sessionID, err)
			}
		}
	})

	t.Run("Destroy is idempotent", func(t *testing.T) {
		registry := NewSessionRegistry(nil)
		sessionID := registry.Create("user-a")

		registry.Destroy(sessionID)
		registry.Destroy(sessionID)
		registry.Destroy("never-issued")

		if registry.Len() != 0 {
			t.Errorf("expected empty registry, got %d", registry.Len())
		}
	})
}
