package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/transferowner/internal/instrumentation"
	"github.com/teemow/transferowner/internal/logging"
)

// persistingTokenSource wraps an oauth2.TokenSource and writes refreshed
// tokens back to the store. A failed write is only logged: the refreshed
// token is still valid in memory for the rest of the run.
type persistingTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	store   TokenStore
	logger  logging.Logger
	metrics *instrumentation.Metrics

	mu        sync.Mutex
	lastToken *oauth2.Token
}

func newPersistingTokenSource(ctx context.Context, base oauth2.TokenSource, initial *oauth2.Token, store TokenStore, logger logging.Logger, metrics *instrumentation.Metrics) *persistingTokenSource {
	return &persistingTokenSource{
		ctx:       ctx,
		base:      base,
		store:     store,
		logger:    logger,
		metrics:   metrics,
		lastToken: initial,
	}
}

// Token returns a token from the underlying source, persisting it when the
// access token changed. A refresh is expected whenever the last known token
// is no longer valid; those calls are traced and timed as an OAuth refresh.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastToken != nil && s.lastToken.Valid() {
		return s.base.Token()
	}

	ctx, span := instrumentation.StartGoogleAPISpan(s.ctx, instrumentation.ServiceOAuth, instrumentation.OperationRefresh)
	defer span.End()

	start := time.Now()
	token, err := s.base.Token()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, instrumentation.OperationRefresh, instrumentation.StatusError, time.Since(start))
		s.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	s.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceOAuth, instrumentation.OperationRefresh, instrumentation.StatusSuccess, time.Since(start))

	if s.lastToken != nil && s.lastToken.AccessToken == token.AccessToken {
		return token, nil
	}

	s.lastToken = token
	s.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)

	if err := s.store.Save(token); err != nil {
		s.logger.Warn("failed to persist refreshed token", logging.Err(err))
	} else {
		s.logger.Debug("persisted refreshed token", "access_token", logging.SanitizeToken(token.AccessToken))
	}

	return token, nil
}
