// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// tokenBytes is the entropy of opaque tokens (state, session) in bytes.
// 32 bytes is well above the 128-bit minimum for unguessable tokens.
const tokenBytes = 32

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateToken returns an opaque, URL-safe random token suitable for OAuth
// state parameters and session identifiers.
//
// Panics if the system entropy source is unavailable, matching [uuid.New].
func GenerateToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic("shared: entropy source unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
