package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/transferowner/internal/logging"
)

// TransferAudit captures one ownership transfer attempt for audit logging.
//
// # Privacy Considerations
//
// TargetEmail contains PII. LogAttrs only emits an anonymized identifier and
// the domain; LogAuditAttrs emits the full address.
type TransferAudit struct {
	// ID identifies this attempt across log lines and exported telemetry.
	ID string

	FileID       string
	TargetEmail  string
	PermissionID string

	StartTime       time.Time
	Duration        time.Duration
	Success         bool
	ConsentRequired bool
	Error           string

	TraceID string
	SpanID  string
}

// NewTransferAudit creates a new TransferAudit with timing started.
// Call CompleteSuccess or CompleteWithError when the transfer finishes.
func NewTransferAudit(fileID, targetEmail string) *TransferAudit {
	return &TransferAudit{
		ID:          uuid.New().String(),
		FileID:      fileID,
		TargetEmail: targetEmail,
		StartTime:   time.Now(),
	}
}

// TargetDomain returns the domain portion of the target email.
func (ta *TransferAudit) TargetDomain() string {
	return ExtractUserDomain(ta.TargetEmail)
}

// Status returns "success" or "error" based on the Success field.
func (ta *TransferAudit) Status() string {
	if ta.Success {
		return StatusSuccess
	}
	return StatusError
}

// WithSpanContext copies the trace and span IDs of the current span.
func (ta *TransferAudit) WithSpanContext(ctx context.Context) *TransferAudit {
	ta.TraceID = GetTraceID(ctx)
	ta.SpanID = GetSpanID(ctx)
	return ta
}

// CompleteSuccess marks the transfer as successful with the created permission.
func (ta *TransferAudit) CompleteSuccess(permissionID string) *TransferAudit {
	ta.Duration = time.Since(ta.StartTime)
	ta.Success = true
	ta.PermissionID = permissionID
	return ta
}

// CompleteWithError marks the transfer as failed.
func (ta *TransferAudit) CompleteWithError(err error, consentRequired bool) *TransferAudit {
	ta.Duration = time.Since(ta.StartTime)
	ta.Success = false
	ta.ConsentRequired = consentRequired
	if err != nil {
		ta.Error = err.Error()
	}
	return ta
}

// LogAttrs returns slog attributes with the target email anonymized.
func (ta *TransferAudit) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("audit_id", ta.ID),
		slog.String("file_id", ta.FileID),
		slog.String("user_hash", logging.AnonymizeEmail(ta.TargetEmail)),
		slog.String("user_domain", ta.TargetDomain()),
		slog.Duration("duration", ta.Duration),
		slog.Bool("success", ta.Success),
		slog.String("status", ta.Status()),
	}
	return append(attrs, ta.optionalAttrs()...)
}

// LogAuditAttrs returns slog attributes including the full target email.
func (ta *TransferAudit) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("audit_id", ta.ID),
		slog.String("file_id", ta.FileID),
		slog.String("user", ta.TargetEmail),
		slog.Duration("duration", ta.Duration),
		slog.Bool("success", ta.Success),
		slog.String("status", ta.Status()),
	}
	return append(attrs, ta.optionalAttrs()...)
}

func (ta *TransferAudit) optionalAttrs() []slog.Attr {
	var attrs []slog.Attr
	if ta.PermissionID != "" {
		attrs = append(attrs, slog.String("permission_id", ta.PermissionID))
	}
	if ta.ConsentRequired {
		attrs = append(attrs, slog.Bool("consent_required", true))
	}
	if ta.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ta.TraceID))
	}
	if ta.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ta.SpanID))
	}
	if ta.Error != "" {
		attrs = append(attrs, slog.String("error", ta.Error))
	}
	return attrs
}

// AuditLogger writes ownership transfer audit records.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given configuration.
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogTransfer writes one audit record. A nil AuditLogger is a no-op.
func (al *AuditLogger) LogTransfer(ta *TransferAudit) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ta.LogAuditAttrs()
	} else {
		attrs = ta.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ta.Success {
		al.logger.Info("ownership_transfer_requested", args...)
	} else {
		al.logger.Warn("ownership_transfer_failed", args...)
	}
}
