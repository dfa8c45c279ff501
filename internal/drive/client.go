package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/transferowner/internal/instrumentation"
	"github.com/teemow/transferowner/internal/logging"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service

	logger  logging.Logger
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	out     io.Writer
	errOut  io.Writer

	apiOptions []option.ClientOption
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default logger is used otherwise.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records transfer metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithAuditLogger writes an audit record for every transfer attempt.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(c *Client) {
		c.audit = al
	}
}

// WithOutput sets where confirmation and error messages for the operator go.
// Defaults are os.Stdout and os.Stderr.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *Client) {
		c.out = out
		c.errOut = errOut
	}
}

// WithEndpoint overrides the Drive API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.apiOptions = append(c.apiOptions, option.WithEndpoint(endpoint))
	}
}

// NewClient creates a Drive client that sends requests through httpClient,
// which must already carry OAuth credentials.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("an authorized HTTP client is required")
	}

	c := &Client{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.DefaultLogger()
	}

	apiOptions := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.apiOptions...)
	driveService, err := drive.NewService(ctx, apiOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	c.service = driveService

	return c, nil
}

// TransferOwnership makes newOwnerEmail the pending owner of the file.
//
// Exactly one permissions.create request is sent, with transferOwnership and
// sendNotificationEmail set. Ownership moves only after the recipient
// accepts. Failures are reported to the operator, with a dedicated message
// when the recipient's consent is missing, and returned as *TransferError.
func (c *Client) TransferOwnership(ctx context.Context, fileID, newOwnerEmail string) (*Permission, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, instrumentation.OperationTransferOwnership,
		attribute.String(instrumentation.SpanAttrFileID, fileID),
		attribute.String(instrumentation.SpanAttrTargetDomain, instrumentation.ExtractUserDomain(newOwnerEmail)),
	)
	defer span.End()

	audit := instrumentation.NewTransferAudit(fileID, newOwnerEmail).WithSpanContext(ctx)

	c.logger.Debug("requesting ownership transfer",
		logging.FileID(fileID),
		logging.UserHash(newOwnerEmail),
		logging.Domain(newOwnerEmail))

	permission := &drive.Permission{
		Type:         TypeUser,
		Role:         RoleOwner,
		EmailAddress: newOwnerEmail,
		PendingOwner: true,
	}

	start := time.Now()
	drivePermission, err := c.service.Permissions.Create(fileID, permission).
		TransferOwnership(true).
		SendNotificationEmail(true).
		Fields("id").
		Context(ctx).
		Do()
	duration := time.Since(start)

	if err != nil {
		consent := IsConsentRequired(err)

		instrumentation.SetSpanError(span, err)
		span.SetAttributes(attribute.Bool(instrumentation.SpanAttrConsent, consent))
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, instrumentation.OperationTransferOwnership, instrumentation.StatusError, duration)
		c.metrics.RecordOwnershipTransfer(ctx, instrumentation.StatusError, consent, newOwnerEmail)
		c.audit.LogTransfer(audit.CompleteWithError(err, consent))
		c.logger.Debug("ownership transfer failed",
			logging.Service(instrumentation.ServiceDrive),
			logging.Operation(instrumentation.OperationTransferOwnership),
			logging.Status(logging.StatusError),
			slog.Duration(logging.KeyDuration, duration),
			slog.Bool("consent_required", consent),
			logging.Err(err))

		if consent {
			fmt.Fprintln(c.errOut, ConsentRequiredMessage)
		} else {
			fmt.Fprintln(c.errOut, "Error transferring ownership:", err.Error())
		}

		return nil, &TransferError{
			FileID:          fileID,
			Email:           newOwnerEmail,
			ConsentRequired: consent,
			Err:             err,
		}
	}

	result := convertToPermission(drivePermission)

	instrumentation.SetSpanSuccess(span)
	span.SetAttributes(attribute.String(instrumentation.SpanAttrPermissionID, result.ID))
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, instrumentation.OperationTransferOwnership, instrumentation.StatusSuccess, duration)
	c.metrics.RecordOwnershipTransfer(ctx, instrumentation.StatusSuccess, false, newOwnerEmail)
	c.audit.LogTransfer(audit.CompleteSuccess(result.ID))
	c.logger.Debug("ownership transfer requested",
		logging.Service(instrumentation.ServiceDrive),
		logging.Operation(instrumentation.OperationTransferOwnership),
		logging.Status(logging.StatusSuccess),
		slog.Duration(logging.KeyDuration, duration),
		slog.String("permission_id", result.ID))

	fmt.Fprintf(c.out, "Pending ownership set for %s. Permission ID: %s\n", newOwnerEmail, result.ID)
	fmt.Fprintf(c.out, "An email has been sent to %s to accept ownership.\n", newOwnerEmail)

	return result, nil
}

// convertToPermission converts a Drive API Permission to our Permission type.
// Only the fields present in the response are filled in.
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		PendingOwner: p.PendingOwner,
	}
}
