// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/project57/simrai/internal/auth"
)

// MockProvider is a test double for [auth.Provider]. Unset function fields
// fall back to canned successful responses.
type MockProvider struct {
	AuthorizeFunc func(state string) string
	ExchangeFunc  func(ctx context.Context, code string) (*auth.Credentials, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (*auth.Credentials, error)
	UserIDFunc    func(ctx context.Context, accessToken string) (string, error)

	ExchangeCalls int64
	RefreshCalls  int64
}

func (m *MockProvider) AuthorizationURL(state string) string {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(state)
	}
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (*auth.Credentials, error) {
	atomic.AddInt64(&m.ExchangeCalls, 1)
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return &auth.Credentials{AccessToken: "access-" + code, RefreshToken: "refresh-" + code}, nil
}

func (m *MockProvider) RefreshCredentials(ctx context.Context, refreshToken string) (*auth.Credentials, error) {
	atomic.AddInt64(&m.RefreshCalls, 1)
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return &auth.Credentials{AccessToken: "refreshed-access"}, nil
}

func (m *MockProvider) FetchUserID(ctx context.Context, accessToken string) (string, error) {
	if m.UserIDFunc != nil {
		return m.UserIDFunc(ctx, accessToken)
	}
	return "mock-user", nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FailingTokenStore wraps a real [auth.TokenStore] and fails Delete when
// FailDelete is set, for exercising unlink error paths.
type FailingTokenStore struct {
	auth.TokenStore
	FailDelete bool
}

func (f *FailingTokenStore) Delete(userID string) error {
	if f.FailDelete {
		return fmt.Errorf("delete failed for %s", userID)
	}
	return f.TokenStore.Delete(userID)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
