package auth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/project57/simrai/internal/shared"
)

// Coordinator orchestrates the login-redirect, callback-validation,
// code-exchange, and session-creation sequence. It holds no per-flow state
// beyond the StateStore record, and never holds a lock on one component
// while blocking on another.
type Coordinator struct {
	states   *StateStore
	tokens   TokenStore
	sessions *SessionRegistry
	provider Provider
	logger   *log.Logger
}

// NewCoordinator wires the coordinator's dependencies.
func NewCoordinator(states *StateStore, tokens TokenStore, sessions *SessionRegistry, provider Provider, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Coordinator{
		states:   states,
		tokens:   tokens,
		sessions: sessions,
		provider: provider,
		logger:   logger,
	}
}

// BeginLogin issues a state token and returns the provider authorization URL
// for the browser redirect.
func (c *Coordinator) BeginLogin() string {
	state := c.states.Issue()
	return c.provider.AuthorizationURL(state)
}

// HandleCallback completes the authorization-code flow and returns the
// session identifier to set as an HTTP-only cookie.
//
// The sequence aborts at the first failing step: no credentials are saved
// before the state is validated, and no session is created for a user whose
// exchange failed.
func (c *Coordinator) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if err := c.states.Validate(state); err != nil {
		c.logger.Warnf("oauth callback rejected: %v", err)
		return "", err
	}

	if code == "" {
		return "", fmt.Errorf("%w: no authorization code", shared.ErrTokenExchangeFailed)
	}

	creds, err := c.provider.ExchangeCode(ctx, code)
	if err != nil {
		c.logger.Warnf("code exchange failed: %v", err)
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExchangeFailed, err)
	}

	userID, err := c.provider.FetchUserID(ctx, creds.AccessToken)
	if err != nil {
		c.logger.Warnf("user lookup failed after exchange: %v", err)
		return "", fmt.Errorf("%w: fetching user identity: %v", shared.ErrTokenExchangeFailed, err)
	}

	if err := c.tokens.Save(userID, creds); err != nil {
		return "", err
	}

	sessionID := c.sessions.Create(userID)
	c.logger.Infof("spotify account connected for user %s", userID)

	return sessionID, nil
}

// WhoAmI resolves a session identifier to the user identity it is bound to.
func (c *Coordinator) WhoAmI(sessionID string) (string, error) {
	return c.sessions.Resolve(sessionID)
}

// Unlink disconnects the account behind the session: credentials are
// deleted and the session destroyed. The session mapping is removed even if
// token deletion fails, so a user can always disconnect client-side;
// storage errors are logged and reported after the session is gone.
func (c *Coordinator) Unlink(sessionID string) error {
	userID, err := c.sessions.Resolve(sessionID)
	if err != nil {
		return err
	}

	deleteErr := c.tokens.Delete(userID)
	c.sessions.Destroy(sessionID)

	if deleteErr != nil {
		c.logger.Errorf("unlink: deleting credentials for %s: %v", userID, deleteErr)
		return deleteErr
	}

	c.logger.Infof("spotify account unlinked for user %s", userID)
	return nil
}
