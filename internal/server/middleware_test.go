package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/project57/simrai/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestCORS(t *testing.T) {
	logger := shared.NewLogger(nil)
	handler := CORS("http://localhost:5658", logger)(okHandler())

	t.Run("rejects an untrusted origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Origin", "http://evil.example")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("no CORS headers for untrusted origin, got %q", got)
		}
	})

	t.Run("admits the configured origin with credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Origin", "http://localhost:5658")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5658" {
			t.Errorf("unexpected allow-origin %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("expected credentials allowed, got %q", got)
		}
	})

	t.Run("passes requests without an Origin header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("answers preflight without reaching the handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
		req.Header.Set("Origin", "http://localhost:5658")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if rec.Body.String() == "ok" {
			t.Error("preflight must not reach the handler")
		}
	})
}

func TestRateLimit(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("throttles a client past its burst", func(t *testing.T) {
		handler := RateLimit(1, 2, logger)(okHandler())

		codes := []int{}
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
			t.Errorf("burst requests should pass, got %v", codes)
		}
		if codes[2] != http.StatusTooManyRequests {
			t.Errorf("expected 429 past the burst, got %d", codes[2])
		}
	})

	t.Run("buckets are per client", func(t *testing.T) {
		handler := RateLimit(1, 1, logger)(okHandler())

		first := httptest.NewRecorder()
		reqA := httptest.NewRequest(http.MethodGet, "/", nil)
		reqA.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(first, reqA)

		second := httptest.NewRecorder()
		reqB := httptest.NewRequest(http.MethodGet, "/", nil)
		reqB.RemoteAddr = "10.0.0.2:1234"
		handler.ServeHTTP(second, reqB)

		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Errorf("separate clients should not share a bucket: %d, %d", first.Code, second.Code)
		}
	})

	t.Run("zero limit disables limiting", func(t *testing.T) {
		handler := RateLimit(0, 0, logger)(okHandler())

		for i := 0; i < 50; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d throttled with limit 0", i)
			}
		}
	})
}

func TestRequestLogger(t *testing.T) {
	logger := shared.NewLogger(nil)
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("middleware must pass the status through, got %d", rec.Code)
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("routes by method and path", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/health", okHandler())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for wrong method, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in registration order", func(t *testing.T) {
		router := NewBasicRouter()

		order := []string{}
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router.Use(mark("outer"), mark("inner"))
		router.Handle("GET", "/", okHandler())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})
}
