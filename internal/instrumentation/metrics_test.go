package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	require.NoError(t, err)
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestMetrics_RecordOwnershipTransfer(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordOwnershipTransfer(ctx, StatusError, true, "jane@example.com")

	points := collectSum(t, reader, "ownership_transfers_total")
	require.Len(t, points, 1)
	assert.Equal(t, int64(1), points[0].Value)

	consent, ok := points[0].Attributes.Value(attribute.Key(attrConsentRequired))
	require.True(t, ok)
	assert.Equal(t, "true", consent.AsString())

	_, ok = points[0].Attributes.Value(attribute.Key(attrTargetDomain))
	assert.False(t, ok, "target domain must not be recorded without detailed labels")
}

func TestMetrics_RecordOwnershipTransfer_DetailedLabels(t *testing.T) {
	m, reader := newTestMetrics(t, true)

	m.RecordOwnershipTransfer(context.Background(), StatusSuccess, false, "jane@example.com")

	points := collectSum(t, reader, "ownership_transfers_total")
	require.Len(t, points, 1)

	domain, ok := points[0].Attributes.Value(attribute.Key(attrTargetDomain))
	require.True(t, ok)
	assert.Equal(t, "example.com", domain.AsString())
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationTransferOwnership, StatusSuccess, 200*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceOAuth, OperationExchange, StatusError, 50*time.Millisecond)

	points := collectSum(t, reader, "google_api_operations_total")
	assert.Len(t, points, 2)
}

func TestMetrics_RecordOAuth(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordOAuthAuth(ctx, OAuthResultCached)
	m.RecordOAuthAuth(ctx, OAuthResultCached)
	m.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)

	auth := collectSum(t, reader, "oauth_auth_total")
	require.Len(t, auth, 1)
	assert.Equal(t, int64(2), auth[0].Value)

	refresh := collectSum(t, reader, "oauth_token_refresh_total")
	require.Len(t, refresh, 1)
	assert.Equal(t, int64(1), refresh[0].Value)
}

func TestMetrics_NoOp(t *testing.T) {
	ctx := context.Background()

	// Zero value and nil recorders must not panic
	for _, m := range []*Metrics{{}, nil} {
		m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationTransferOwnership, StatusSuccess, time.Second)
		m.RecordOAuthAuth(ctx, OAuthResultSuccess)
		m.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
		m.RecordOwnershipTransfer(ctx, StatusSuccess, false, "jane@example.com")
	}
}
