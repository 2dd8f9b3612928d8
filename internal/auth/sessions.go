package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/shared"
)

// SessionRegistry maps opaque session identifiers to user identities. The
// registry exclusively owns the mapping; browsers only ever hold the
// identifier via a cookie.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]sessionRecord
	logger   *log.Logger
	now      func() time.Time
}

type sessionRecord struct {
	userID    string
	createdAt time.Time
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(logger *log.Logger) *SessionRegistry {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionRegistry{
		sessions: make(map[string]sessionRecord),
		logger:   logger,
		now:      time.Now,
	}
}

// Create generates an opaque session identifier bound to userID and returns
// it for cookie issuance.
func (r *SessionRegistry) Create(userID string) string {
	sessionID := shared.GenerateToken()

	r.mu.Lock()
	r.sessions[sessionID] = sessionRecord{userID: userID, createdAt: r.now()}
	r.mu.Unlock()

	return sessionID
}

// Resolve returns the user identity the session is bound to, or
// [shared.ErrUnauthenticated] whether the identifier is absent or malformed.
// Both failure shapes take the same path so lookups don't hint at which one
// occurred.
func (r *SessionRegistry) Resolve(sessionID string) (string, error) {
	r.mu.RLock()
	record, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if sessionID == "" || !ok {
		return "", fmt.Errorf("%w: no active session", shared.ErrUnauthenticated)
	}

	return record.userID, nil
}

// Destroy removes the session mapping. Idempotent.
func (r *SessionRegistry) Destroy(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// Len returns the number of active sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
