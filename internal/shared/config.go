package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Auth        AuthConfig        `toml:"auth"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// AuthConfig contains tunables for the OAuth credential lifecycle.
//
// All durations are optional; zero values fall back to the documented
// defaults so deployments only override what they need.
type AuthConfig struct {
	StateTTLMinutes      int    `toml:"state_ttl_minutes"`      // default 10
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"` // default 60
	RefreshMarginSeconds int    `toml:"refresh_margin_seconds"` // default 60
	SessionCookie        string `toml:"session_cookie"`         // default "simrai_session"
	TokensDir            string `toml:"tokens_dir"`             // default "tokens"
}

// StateTTL returns the authorization state lifetime.
func (a AuthConfig) StateTTL() time.Duration {
	if a.StateTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(a.StateTTLMinutes) * time.Minute
}

// SweepInterval returns the cadence of expired-state purges.
func (a AuthConfig) SweepInterval() time.Duration {
	if a.SweepIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(a.SweepIntervalSeconds) * time.Second
}

// RefreshMargin returns the safety margin subtracted from credential expiry
// before a refresh is considered necessary.
func (a AuthConfig) RefreshMargin() time.Duration {
	if a.RefreshMarginSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(a.RefreshMarginSeconds) * time.Second
}

// CookieName returns the session cookie name.
func (a AuthConfig) CookieName() string {
	if a.SessionCookie == "" {
		return "simrai_session"
	}
	return a.SessionCookie
}

// TokensDirPath returns the directory token files are written to.
func (a AuthConfig) TokensDirPath() string {
	if a.TokensDir == "" {
		return "tokens"
	}
	return a.TokensDir
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	WebOrigin string  `toml:"web_origin"` // origin of the frontend allowed to call the API
	RateLimit float64 `toml:"rate_limit"` // requests per second per client, 0 disables
	RateBurst int     `toml:"rate_burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	port := s.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
