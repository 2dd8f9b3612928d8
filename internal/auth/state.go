package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/shared"
)

// StateStore issues and single-use-validates anti-CSRF authorization state
// tokens. Tokens expire after a fixed TTL; validation enforces expiry
// regardless of sweep cadence.
type StateStore struct {
	mu     sync.Mutex
	states map[string]stateRecord

	ttl           time.Duration
	sweepInterval time.Duration
	stopSweep     chan struct{}
	closeOnce     sync.Once

	logger *log.Logger
	now    func() time.Time
}

type stateRecord struct {
	createdAt time.Time
	expiresAt time.Time
}

// NewStateStore creates a StateStore with the given token TTL and sweep
// interval. A sweepInterval of zero disables the background sweep; Sweep can
// still be called directly.
func NewStateStore(ttl, sweepInterval time.Duration, logger *log.Logger) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &StateStore{
		states:        make(map[string]stateRecord),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		stopSweep:     make(chan struct{}),
		logger:        logger,
		now:           time.Now,
	}

	if sweepInterval > 0 {
		go s.sweepLoop()
	}

	return s
}

// Issue generates a cryptographically random state token, records it with
// its expiry, and returns it.
func (s *StateStore) Issue() string {
	token := shared.GenerateToken()
	now := s.now()

	s.mu.Lock()
	s.states[token] = stateRecord{createdAt: now, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	return token
}

// Validate consumes a state token. The lookup and delete happen under one
// lock acquisition, so two callbacks racing on the same token cannot both
// succeed. Returns [shared.ErrUnknownState] for tokens never issued or
// already consumed, and [shared.ErrExpiredState] for tokens past their TTL.
func (s *StateStore) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty state parameter", shared.ErrUnknownState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.states[token]
	if !ok {
		return shared.ErrUnknownState
	}

	// Consumed either way: an expired token is as dead as a used one.
	delete(s.states, token)

	if s.now().After(record.expiresAt) {
		return fmt.Errorf("%w: issued %s ago", shared.ErrExpiredState, s.now().Sub(record.createdAt).Round(time.Second))
	}

	return nil
}

// Sweep purges expired-but-unconsumed records and returns how many were
// removed. Purely resource hygiene: Validate enforces expiry on its own.
func (s *StateStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, record := range s.states {
		if now.After(record.expiresAt) {
			delete(s.states, token)
			removed++
		}
	}

	return removed
}

// Len returns the number of live state records.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Close stops the background sweep goroutine. Safe to call more than once.
func (s *StateStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stopSweep)
	})
}

func (s *StateStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debugf("swept %d expired oauth states", removed)
			}
		case <-s.stopSweep:
			return
		}
	}
}
