package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// OAuth state errors (CSRF/replay guard)
	ErrUnknownState = fmt.Errorf("unknown authorization state")
	ErrExpiredState = fmt.Errorf("expired authorization state")

	// Credential lifecycle errors
	ErrUnauthenticated     = fmt.Errorf("not authenticated")
	ErrTokenExchangeFailed = fmt.Errorf("token exchange failed")
	ErrRefreshFailed       = fmt.Errorf("token refresh failed")
	ErrAccessDenied        = fmt.Errorf("authorization denied")
	ErrCredentialsNotFound = fmt.Errorf("no stored credentials")
	ErrInvalidUserID       = fmt.Errorf("invalid user identifier")
	ErrStorageFailure      = fmt.Errorf("credential storage failure")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
