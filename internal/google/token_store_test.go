package google

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileTokenStore(path)

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := (&oauth2.Token{
		AccessToken:  "access-1",
		TokenType:    "Bearer",
		RefreshToken: "refresh-1",
		Expiry:       expiry,
	}).WithExtra(map[string]interface{}{"scope": "https://www.googleapis.com/auth/drive"})

	require.NoError(t, store.Save(token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.Equal(t, "Bearer", loaded.TokenType)
	assert.True(t, expiry.Equal(loaded.Expiry))
	assert.Equal(t, "https://www.googleapis.com/auth/drive", loaded.Extra("scope"))

	// no temporary files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestFileTokenStore_SaveOverwrites(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "first"}))
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "second"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.AccessToken)
}

func TestFileTokenStore_LoadMissing(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileTokenStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "access refresh"},
		{"empty object", "{}"},
		{"wrong types", `{"access_token": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewFileTokenStore(path).Load()
			assert.ErrorIs(t, err, ErrMalformedToken)
			assert.False(t, errors.Is(err, ErrNoToken))
		})
	}
}

func TestFileTokenStore_SaveLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	other := flock.New(path + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	err = NewFileTokenStore(path).Save(&oauth2.Token{AccessToken: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "token file must not be written while locked")
}

func TestFileTokenStore_SaveNil(t *testing.T) {
	assert.Error(t, NewFileTokenStore(filepath.Join(t.TempDir(), "token.json")).Save(nil))
}

func TestTokenScope(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]interface{}
		want  string
	}{
		{"string", map[string]interface{}{"scope": "a b"}, "a b"},
		{"list", map[string]interface{}{"scope": []interface{}{"a", "b"}}, "a b"},
		{"string slice", map[string]interface{}{"scope": []string{"a"}}, "a"},
		{"absent", map[string]interface{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := (&oauth2.Token{AccessToken: "x"}).WithExtra(tt.extra)
			assert.Equal(t, tt.want, tokenScope(token))
		})
	}
}
