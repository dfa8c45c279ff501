// Package google provides OAuth2 authorization for the Google Drive API.
//
// It covers the three pieces a run needs before talking to Drive:
//   - loading the client descriptor from a client-secret JSON file
//   - caching the OAuth token on disk (FileTokenStore)
//   - obtaining an authorized *http.Client, either from the cached token or
//     through the interactive authorization-code flow (Authorizer)
//
// The interactive flow prints an authorization URL, then blocks on one line
// of input holding the code the operator copied from the consent page. That
// read has no timeout; the only way out is entering a code or terminating
// the process.
package google
