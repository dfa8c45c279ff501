package google

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/teemow/transferowner/internal/instrumentation"
	"github.com/teemow/transferowner/internal/logging"
)

// authState is sent with the authorization URL. The code is pasted back by
// hand, so there is no redirect on which to verify it.
const authState = "state-token"

// Authorizer produces an HTTP client authorized for the Drive API.
type Authorizer struct {
	// Config is the OAuth client configuration (see ClientDescriptor.OAuthConfig).
	Config *oauth2.Config

	// Store caches the token between runs.
	Store TokenStore

	// In supplies the authorization code during the interactive flow.
	In io.Reader

	// Out receives the authorization URL, the prompt and progress messages.
	Out io.Writer

	// Logger receives diagnostics and error context.
	Logger logging.Logger

	// Metrics records authorization outcomes. May be nil.
	Metrics *instrumentation.Metrics

	// Transport is the base transport for token and API requests.
	// http.DefaultTransport is used when nil.
	Transport http.RoundTripper
}

// NewAuthorizer creates an Authorizer reading codes from stdin and writing
// prompts to stdout.
func NewAuthorizer(config *oauth2.Config, store TokenStore, logger logging.Logger) *Authorizer {
	return &Authorizer{
		Config: config,
		Store:  store,
		In:     os.Stdin,
		Out:    os.Stdout,
		Logger: logger,
	}
}

// Authorize returns an authorized client. A cached token is used as-is
// without checking its expiry; the oauth2 transport refreshes it lazily on
// the first request. Without a usable cached token the interactive flow runs.
//
// Errors are *AuthError when no token could be obtained and
// *PersistenceError when a new token could not be cached. A cache write
// failure is fatal even though the token itself is valid.
func (a *Authorizer) Authorize(ctx context.Context) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: a.transport()})

	token, err := a.Store.Load()
	switch {
	case err == nil:
		a.logger().Debug("using cached token", "access_token", logging.SanitizeToken(token.AccessToken))
		a.Metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultCached)
		return a.client(ctx, token), nil
	case errors.Is(err, ErrNoToken):
		a.logger().Debug("no cached token, starting interactive authorization")
	default:
		a.logger().Warn("cached token unusable, starting interactive authorization", logging.Err(err))
	}

	token, err = a.interactiveToken(ctx)
	if err != nil {
		a.Metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	a.Metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	if err := a.Store.Save(token); err != nil {
		a.logger().Error("Error saving token", logging.Err(err))
		return nil, &PersistenceError{Path: a.storePath(), Err: err}
	}
	fmt.Fprintln(a.Out, "Token stored to", a.storePath())

	return a.client(ctx, token), nil
}

// interactiveToken runs the authorization-code flow with PKCE: print the
// URL, block until the operator enters the code, exchange it together with
// the code verifier.
func (a *Authorizer) interactiveToken(ctx context.Context) (*oauth2.Token, error) {
	verifier, err := cv.CreateCodeVerifier()
	if err != nil {
		return nil, &AuthError{Op: "code verifier", Err: err}
	}

	authURL := a.Config.AuthCodeURL(authState,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", verifier.CodeChallengeS256()),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	fmt.Fprintln(a.Out, "Authorize this app by visiting this url:", authURL)

	code, err := a.readCode()
	if err != nil {
		a.logger().Error("Error reading authorization code", logging.Err(err))
		return nil, &AuthError{Op: "code entry", Err: err}
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceOAuth, instrumentation.OperationExchange)
	defer span.End()

	start := time.Now()
	token, err := a.Config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier.String()))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		a.Metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, instrumentation.OperationExchange, instrumentation.StatusError, time.Since(start))
		a.logger().Error("Error retrieving access token", logging.Err(err))
		return nil, &AuthError{Op: "code exchange", Err: err}
	}
	instrumentation.SetSpanSuccess(span)
	a.Metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, instrumentation.OperationExchange, instrumentation.StatusSuccess, time.Since(start))

	return token, nil
}

// readCode prompts for the authorization code and reads one line. This is
// the single point where a run waits on the operator. There is no timeout
// and no cancellation: the run continues once a line arrives or stops when
// the process is terminated.
func (a *Authorizer) readCode() (string, error) {
	fmt.Fprint(a.Out, "Enter the code from that page here: ")

	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	code := strings.TrimSpace(line)
	if code == "" {
		return "", errors.New("no authorization code entered")
	}
	return code, nil
}

// client wraps the token in a refreshing, persisting token source.
func (a *Authorizer) client(ctx context.Context, token *oauth2.Token) *http.Client {
	base := a.Config.TokenSource(ctx, token)
	ts := newPersistingTokenSource(ctx, base, token, a.Store, a.logger(), a.Metrics)
	return oauth2.NewClient(ctx, ts)
}

func (a *Authorizer) transport() http.RoundTripper {
	base := a.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}

func (a *Authorizer) logger() logging.Logger {
	if a.Logger == nil {
		return logging.DefaultLogger()
	}
	return a.Logger
}

func (a *Authorizer) storePath() string {
	if fs, ok := a.Store.(*FileTokenStore); ok {
		return fs.Path
	}
	return "token store"
}
