package google

import (
	drive "google.golang.org/api/drive/v3"
)

// DefaultOAuthScopes are the scopes requested during authorization.
// Creating an owner permission requires full Drive access.
var DefaultOAuthScopes = []string{
	drive.DriveScope,
}
