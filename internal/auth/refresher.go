package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/shared"
)

// Refresher wraps TokenStore reads with transparent refresh-before-use.
type Refresher struct {
	tokens   TokenStore
	provider Provider
	margin   time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewRefresher creates a Refresher that refreshes credentials expiring
// within margin of now.
func NewRefresher(tokens TokenStore, provider Provider, margin time.Duration, logger *log.Logger) *Refresher {
	if margin <= 0 {
		margin = time.Minute
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Refresher{
		tokens:   tokens,
		provider: provider,
		margin:   margin,
		logger:   logger,
		now:      time.Now,
	}
}

// GetValidAccessToken returns a usable access token for userID, refreshing
// stale credentials first.
//
// The stale path runs inside the token store's per-partition Update, and the
// freshness check is repeated under that lock, so N concurrent callers
// hitting the expiry window perform exactly one provider refresh. Returns
// [shared.ErrUnauthenticated] when no credentials are stored and
// [shared.ErrRefreshFailed] when the provider rejects the refresh token.
func (r *Refresher) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	creds, err := r.tokens.Load(userID)
	if errors.Is(err, shared.ErrCredentialsNotFound) {
		return "", fmt.Errorf("%w: spotify account not connected", shared.ErrUnauthenticated)
	}
	if err != nil {
		return "", err
	}

	if creds.Valid(r.now(), r.margin) {
		return creds.AccessToken, nil
	}

	var token string
	err = r.tokens.Update(userID, func(current *Credentials) (*Credentials, error) {
		// Another request may have refreshed while we waited on the lock.
		if current.Valid(r.now(), r.margin) {
			token = current.AccessToken
			return nil, nil
		}

		if current.RefreshToken == "" {
			return nil, fmt.Errorf("%w: no refresh token stored", shared.ErrRefreshFailed)
		}

		fresh, err := r.provider.RefreshCredentials(ctx, current.RefreshToken)
		if err != nil {
			r.logger.Warnf("refresh failed for user %s: %v", userID, err)
			return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}

		// Spotify usually omits the refresh token on refresh; keep ours.
		if fresh.RefreshToken == "" {
			fresh.RefreshToken = current.RefreshToken
		}

		token = fresh.AccessToken
		return fresh, nil
	})
	if errors.Is(err, shared.ErrCredentialsNotFound) {
		return "", fmt.Errorf("%w: spotify account not connected", shared.ErrUnauthenticated)
	}
	if err != nil {
		return "", err
	}

	return token, nil
}
