package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parses a full config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:9999/auth/callback"

[auth]
state_ttl_minutes = 5
sweep_interval_seconds = 30
refresh_margin_seconds = 120
session_cookie = "my_session"
tokens_dir = "/var/lib/simrai/tokens"

[database]
path = "test.db"
max_open_conns = 3
max_idle_conns = 1

[server]
host = "0.0.0.0"
port = 9999
web_origin = "https://app.example.com"
rate_limit = 5.0
rate_burst = 10
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("client_id not parsed: %s", config.Credentials.Spotify.ClientID)
		}
		if config.Auth.StateTTL() != 5*time.Minute {
			t.Errorf("state TTL: %v", config.Auth.StateTTL())
		}
		if config.Auth.SweepInterval() != 30*time.Second {
			t.Errorf("sweep interval: %v", config.Auth.SweepInterval())
		}
		if config.Auth.RefreshMargin() != 2*time.Minute {
			t.Errorf("refresh margin: %v", config.Auth.RefreshMargin())
		}
		if config.Auth.CookieName() != "my_session" {
			t.Errorf("cookie name: %s", config.Auth.CookieName())
		}
		if config.Auth.TokensDirPath() != "/var/lib/simrai/tokens" {
			t.Errorf("tokens dir: %s", config.Auth.TokensDirPath())
		}
		if config.Server.Addr() != "0.0.0.0:9999" {
			t.Errorf("server addr: %s", config.Server.Addr())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[[[["), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestAuthConfigDefaults(t *testing.T) {
	var config AuthConfig

	if config.StateTTL() != 10*time.Minute {
		t.Errorf("default state TTL: %v", config.StateTTL())
	}
	if config.SweepInterval() != time.Minute {
		t.Errorf("default sweep interval: %v", config.SweepInterval())
	}
	if config.RefreshMargin() != time.Minute {
		t.Errorf("default refresh margin: %v", config.RefreshMargin())
	}
	if config.CookieName() != "simrai_session" {
		t.Errorf("default cookie name: %s", config.CookieName())
	}
	if config.TokensDirPath() != "tokens" {
		t.Errorf("default tokens dir: %s", config.TokensDirPath())
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Addr() != "localhost:8000" {
		t.Errorf("default server addr: %s", config.Server.Addr())
	}
	if config.Database.Path == "" {
		t.Error("default database path should be set")
	}
	if config.Auth.CookieName() != "simrai_session" {
		t.Errorf("default cookie name: %s", config.Auth.CookieName())
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("creates a loadable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("created config does not load: %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}
