package auth

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/project57/simrai/internal/shared"
)

func TestStateStore(t *testing.T) {
	t.Run("Issue", func(t *testing.T) {
		store := NewStateStore(10*time.Minute, 0, nil)

		t.Run("generates unique tokens", func(t *testing.T) {
			seen := map[string]bool{}
			for i := 0; i < 100; i++ {
				token := store.Issue()
				if token == "" {
					t.Fatal("expected non-empty token")
				}
				if seen[token] {
					t.Fatalf("duplicate token issued: %s", token)
				}
				seen[token] = true
			}
		})

		t.Run("records are retained until validated", func(t *testing.T) {
			if store.Len() != 100 {
				t.Errorf("expected 100 live records, got %d", store.Len())
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("accepts an issued token once", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)
			token := store.Issue()

			if err := store.Validate(token); err != nil {
				t.Fatalf("first validation failed: %v", err)
			}
			if err := store.Validate(token); !errors.Is(err, shared.ErrUnknownState) {
				t.Errorf("expected ErrUnknownState on replay, got %v", err)
			}
		})

		t.Run("rejects a token never issued", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)
			if err := store.Validate("forged-token"); !errors.Is(err, shared.ErrUnknownState) {
				t.Errorf("expected ErrUnknownState, got %v", err)
			}
		})

		t.Run("rejects an empty token", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)
			if err := store.Validate(""); !errors.Is(err, shared.ErrUnknownState) {
				t.Errorf("expected ErrUnknownState, got %v", err)
			}
		})

		t.Run("rejects an expired token without a sweep", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)

			current := time.Now()
			store.now = func() time.Time { return current }

			token := store.Issue()
			current = current.Add(11 * time.Minute)

			if err := store.Validate(token); !errors.Is(err, shared.ErrExpiredState) {
				t.Errorf("expected ErrExpiredState, got %v", err)
			}

			t.Run("and consumes it", func(t *testing.T) {
				if err := store.Validate(token); !errors.Is(err, shared.ErrUnknownState) {
					t.Errorf("expected ErrUnknownState after expiry consumption, got %v", err)
				}
			})
		})

		t.Run("accepts a token just inside the TTL", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)

			current := time.Now()
			store.now = func() time.Time { return current }

			token := store.Issue()
			current = current.Add(10*time.Minute - time.Second)

			if err := store.Validate(token); err != nil {
				t.Errorf("expected token inside TTL to validate, got %v", err)
			}
		})

		t.Run("exactly one of two racing callbacks wins", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)
			token := store.Issue()

			var wg sync.WaitGroup
			results := make(chan error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results <- store.Validate(token)
				}()
			}
			wg.Wait()
			close(results)

			successes := 0
			for err := range results {
				if err == nil {
					successes++
				} else if !errors.Is(err, shared.ErrUnknownState) {
					t.Errorf("unexpected error shape: %v", err)
				}
			}
			if successes != 1 {
				t.Errorf("expected exactly 1 successful validation, got %d", successes)
			}
		})
	})

	t.Run("Sweep", func(t *testing.T) {
		t.Run("removes only expired records", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)

			current := time.Now()
			store.now = func() time.Time { return current }

			stale := store.Issue()
			current = current.Add(11 * time.Minute)
			fresh := store.Issue()

			removed := store.Sweep()
			if removed != 1 {
				t.Errorf("expected 1 record swept, got %d", removed)
			}
			if store.Len() != 1 {
				t.Errorf("expected 1 record remaining, got %d", store.Len())
			}

			if err := store.Validate(fresh); err != nil {
				t.Errorf("fresh token should survive sweep: %v", err)
			}
			if err := store.Validate(stale); !errors.Is(err, shared.ErrUnknownState) {
				t.Errorf("swept token should be unknown, got %v", err)
			}
		})

		t.Run("is a no-op on an empty store", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, 0, nil)
			if removed := store.Sweep(); removed != 0 {
				t.Errorf("expected 0 removed, got %d", removed)
			}
		})
	})

	t.Run("Close", func(t *testing.T) {
		t.Run("stops the sweep loop and tolerates repeat calls", func(t *testing.T) {
			store := NewStateStore(10*time.Minute, time.Millisecond, nil)
			store.Close()
			store.Close()
		})
	})
}
