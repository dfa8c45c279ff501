package google

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned by a token store when no cached token exists.
var ErrNoToken = errors.New("no cached OAuth token")

// ErrMalformedToken is returned by a token store when the cache file exists
// but does not hold a usable token.
var ErrMalformedToken = errors.New("malformed OAuth token cache")

// ConfigError reports a client-secret file that is missing, unreadable or invalid.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to load client credentials from %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError reports that no authorized client could be obtained: the code
// exchange failed or no code was entered.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization failed during %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PersistenceError reports that a freshly obtained token could not be written
// to the token cache.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to store token to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
