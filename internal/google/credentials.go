package google

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientDescriptor identifies the OAuth client application. It is read from
// the provider-issued client-secret file and never written back.
type ClientDescriptor struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Endpoint holds the auth and token URLs named in the file, falling back
	// to google.Endpoint for any the file omits.
	Endpoint oauth2.Endpoint
}

// LoadClientDescriptor reads a client-secret JSON file holding an "installed"
// or "web" block, preferring "installed" when both are present. The first
// redirect URI is used. Files without auth_uri or token_uri get Google's
// endpoints. Any failure is returned as a *ConfigError.
func LoadClientDescriptor(path string) (*ClientDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	data, err = preferInstalled(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	conf, err := google.ConfigFromJSON(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	endpoint := conf.Endpoint
	if endpoint.AuthURL == "" {
		endpoint.AuthURL = google.Endpoint.AuthURL
	}
	if endpoint.TokenURL == "" {
		endpoint.TokenURL = google.Endpoint.TokenURL
	}

	return &ClientDescriptor{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		RedirectURI:  conf.RedirectURL,
		Endpoint:     endpoint,
	}, nil
}

// preferInstalled drops the "web" block when an "installed" block is also
// present, since google.ConfigFromJSON would otherwise pick "web".
func preferInstalled(data []byte) ([]byte, error) {
	var blocks struct {
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("invalid client secret file: %w", err)
	}
	if !hasBlock(blocks.Installed) || !hasBlock(blocks.Web) {
		return data, nil
	}
	return json.Marshal(map[string]json.RawMessage{"installed": blocks.Installed})
}

func hasBlock(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// OAuthConfig returns the oauth2 configuration for this client with the
// given scopes. DefaultOAuthScopes is used when none are passed.
func (d *ClientDescriptor) OAuthConfig(scopes ...string) *oauth2.Config {
	if len(scopes) == 0 {
		scopes = DefaultOAuthScopes
	}
	return &oauth2.Config{
		ClientID:     d.ClientID,
		ClientSecret: d.ClientSecret,
		RedirectURL:  d.RedirectURI,
		Endpoint:     d.Endpoint,
		Scopes:       scopes,
	}
}
