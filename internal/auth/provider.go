package auth

import (
	"context"
	"time"
)

// Credentials holds the access/refresh token pair for one user.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the access token is still usable at the given
// instant, leaving margin before the actual expiry.
func (c *Credentials) Valid(now time.Time, margin time.Duration) bool {
	return c.AccessToken != "" && now.Before(c.ExpiresAt.Add(-margin))
}

// Provider is the capability surface the auth flow needs from an OAuth
// identity provider. [services.SpotifyService] is the production
// implementation; tests substitute a stub.
type Provider interface {
	// AuthorizationURL builds the provider's authorization URL embedding the
	// given anti-CSRF state token and the configured scope set.
	AuthorizationURL(state string) string

	// ExchangeCode exchanges an authorization code for credentials.
	ExchangeCode(ctx context.Context, code string) (*Credentials, error)

	// RefreshCredentials obtains fresh credentials using a refresh token.
	// Providers that do not rotate refresh tokens return an empty
	// RefreshToken field; callers keep the stored one.
	RefreshCredentials(ctx context.Context, refreshToken string) (*Credentials, error)

	// FetchUserID returns the provider's stable identifier for the user the
	// access token belongs to.
	FetchUserID(ctx context.Context, accessToken string) (string, error)
}
