package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/oauth2"
)

// TokenStore loads and saves the cached OAuth token.
type TokenStore interface {
	// Load returns the cached token, ErrNoToken when there is none, or an
	// error wrapping ErrMalformedToken when the cache cannot be parsed.
	Load() (*oauth2.Token, error)

	// Save replaces the cached token.
	Save(token *oauth2.Token) error
}

// cachedToken is the on-disk shape of the token cache. The granted scope is
// kept alongside the oauth2 token fields.
type cachedToken struct {
	*oauth2.Token
	Scope string `json:"scope,omitempty"`
}

// FileTokenStore keeps the token as JSON in a single file.
//
// Saves hold an advisory lock on <Path>.lock and replace the file through a
// rename, so a concurrent Load never sees a partial write.
type FileTokenStore struct {
	Path string
}

// NewFileTokenStore creates a token store backed by the file at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// Load reads the cached token from disk.
func (s *FileTokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.Path, err)
	}

	var ct cachedToken
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedToken, s.Path, err)
	}
	if ct.Token == nil || (ct.AccessToken == "" && ct.RefreshToken == "") {
		return nil, fmt.Errorf("%w: %s: no access or refresh token", ErrMalformedToken, s.Path)
	}

	token := ct.Token
	if ct.Scope != "" {
		token = token.WithExtra(map[string]interface{}{"scope": ct.Scope})
	}
	return token, nil
}

// Save writes the token to disk with 0600 permissions, creating the parent
// directory if needed.
func (s *FileTokenStore) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("token is required")
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	fileLock := flock.New(s.Path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock token file %s: %w", s.Path, err)
	}
	if !locked {
		return fmt.Errorf("token file %s is locked by another process", s.Path)
	}
	defer fileLock.Unlock()

	data, err := json.Marshal(cachedToken{Token: token, Scope: tokenScope(token)})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to replace token file %s: %w", s.Path, err)
	}
	return nil
}

// tokenScope returns the space-separated scope list the provider granted,
// if it reported one.
func tokenScope(token *oauth2.Token) string {
	switch v := token.Extra("scope").(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
