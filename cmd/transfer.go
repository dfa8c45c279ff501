package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/transferowner/internal/config"
	"github.com/teemow/transferowner/internal/drive"
	"github.com/teemow/transferowner/internal/google"
	"github.com/teemow/transferowner/internal/instrumentation"
	"github.com/teemow/transferowner/internal/logging"
)

// runTransfer is the single terminal error handler: every failure is
// reported once as "Error in main execution" and returned for the exit code.
func runTransfer(cmd *cobra.Command, opts *rootOptions, fileID, newOwnerEmail string) error {
	err := transfer(cmd.Context(), cmd, opts, fileID, newOwnerEmail)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error in main execution:", err)
	}
	return err
}

func transfer(ctx context.Context, cmd *cobra.Command, opts *rootOptions, fileID, newOwnerEmail string) error {
	req, err := drive.NewTransferRequest(fileID, newOwnerEmail)
	if err != nil {
		return &UsageError{Err: err}
	}

	cfg, slogger, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := logging.NewSlogAdapter(slogger)

	instrConfig := cfg.Instrumentation
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("Error during instrumentation shutdown", logging.Err(err))
		}
	}()
	if provider.Enabled() {
		logger.Debug("instrumentation enabled",
			"metrics_exporter", instrConfig.MetricsExporter,
			"tracing_exporter", instrConfig.TracingExporter)
	}

	ctx, span := instrumentation.StartSpan(ctx, "transferowner.run",
		attribute.String(instrumentation.SpanAttrFileID, req.FileID),
		attribute.String(instrumentation.SpanAttrTargetDomain, instrumentation.ExtractUserDomain(req.NewOwnerEmail)),
	)
	defer span.End()

	descriptor, err := google.LoadClientDescriptor(cfg.CredentialsPath)
	if err != nil {
		logger.Error("Error loading credentials", logging.Path(cfg.CredentialsPath), logging.Err(err))
		instrumentation.SetSpanError(span, err)
		return err
	}

	authorizer := google.NewAuthorizer(descriptor.OAuthConfig(), google.NewFileTokenStore(cfg.TokenPath), logger)
	authorizer.In = cmd.InOrStdin()
	authorizer.Out = cmd.OutOrStdout()
	authorizer.Metrics = provider.Metrics()

	httpClient, err := authorizer.Authorize(ctx)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}

	driveOpts := []drive.Option{
		drive.WithLogger(logger),
		drive.WithMetrics(provider.Metrics()),
		drive.WithAuditLogger(instrumentation.NewAuditLogger(logger.Logger(), instrConfig.AuditLogging)),
		drive.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
	if opts.driveEndpoint != "" {
		driveOpts = append(driveOpts, drive.WithEndpoint(opts.driveEndpoint))
	}

	client, err := drive.NewClient(ctx, httpClient, driveOpts...)
	if err != nil {
		return err
	}

	if _, err := client.TransferOwnership(ctx, req.FileID, req.NewOwnerEmail); err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}

// loadConfig resolves the configuration from defaults, environment, the
// optional config file and explicitly set flags, in that order, and builds
// the logger for the run.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()

	if opts.configFile != "" {
		bootstrap, err := logging.NewLogger(cmd.ErrOrStderr(), "info", logging.FormatText)
		if err != nil {
			return cfg, nil, err
		}
		if err := cfg.LoadFile(opts.configFile, bootstrap); err != nil {
			return cfg, nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("credentials") {
		cfg.CredentialsPath = opts.credentials
	}
	if flags.Changed("token") {
		cfg.TokenPath = opts.token
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}
