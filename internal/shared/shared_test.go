package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected a logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	child := WithLogger(logger, "component", "auth")
	child.Info("scoped")

	output := buf.String()
	if !strings.Contains(output, "component") || !strings.Contains(output, "auth") {
		t.Errorf("expected child logger context, got %q", output)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	SetLogLevel(logger, log.ErrorLevel)
	logger.Info("suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("info output should be suppressed at error level")
	}

	logger.Error("surfaced")
	if !strings.Contains(buf.String(), "surfaced") {
		t.Error("error output should pass")
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected valid uuid, got %q: %v", id, err)
	}
}

func TestGenerateToken(t *testing.T) {
	t.Run("tokens are unique and URL safe", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 1000; i++ {
			token := GenerateToken()
			if seen[token] {
				t.Fatalf("duplicate token: %s", token)
			}
			seen[token] = true

			if strings.ContainsAny(token, "+/=") {
				t.Fatalf("token not URL safe: %s", token)
			}
		}
	})

	t.Run("tokens carry at least 32 bytes of entropy", func(t *testing.T) {
		token := GenerateToken()
		// base64 without padding: 32 bytes encode to 43 characters.
		if len(token) < 43 {
			t.Errorf("token too short: %d characters", len(token))
		}
	})
}
