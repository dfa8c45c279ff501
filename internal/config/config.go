// Package config builds the process-wide configuration for transferowner.
//
// A Config is constructed once at startup and passed into each component so
// that tests can point the credential and token files at temporary locations.
// Values are resolved in order: defaults next to the executable, environment
// variables, an optional TOML file, then command-line flags (applied by cmd).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/teemow/transferowner/internal/instrumentation"
	"github.com/teemow/transferowner/internal/logging"
)

const (
	// DefaultCredentialsFile is the client-secret file name looked up next to the binary.
	DefaultCredentialsFile = "credentials.json"

	// DefaultTokenFile is the token cache file name written next to the binary.
	DefaultTokenFile = "token.json"
)

// Environment variables that override the defaults.
const (
	EnvCredentials = "TRANSFEROWNER_CREDENTIALS"
	EnvToken       = "TRANSFEROWNER_TOKEN"
	EnvLogLevel    = "TRANSFEROWNER_LOG_LEVEL"
	EnvLogFormat   = "TRANSFEROWNER_LOG_FORMAT"
)

// Config holds everything a run needs besides the two positional arguments.
type Config struct {
	// CredentialsPath is the Google client-secret JSON file (installed or web).
	CredentialsPath string

	// TokenPath is the OAuth token cache file.
	TokenPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is text or json.
	LogFormat string

	// Instrumentation configures metrics, tracing and audit logging.
	Instrumentation instrumentation.Config
}

// fileConfig mirrors Config as it appears in a TOML file.
type fileConfig struct {
	Credentials string         `toml:"credentials"`
	Token       string         `toml:"token"`
	Logging     *loggingConfig `toml:"logging"`
}

type loggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a Config whose file paths live in the directory of
// the running executable, with environment overrides applied.
func DefaultConfig() Config {
	dir := executableDir()

	return Config{
		CredentialsPath: getEnvOrDefault(EnvCredentials, filepath.Join(dir, DefaultCredentialsFile)),
		TokenPath:       getEnvOrDefault(EnvToken, filepath.Join(dir, DefaultTokenFile)),
		LogLevel:        getEnvOrDefault(EnvLogLevel, "info"),
		LogFormat:       getEnvOrDefault(EnvLogFormat, logging.FormatText),
		Instrumentation: instrumentation.DefaultConfig(),
	}
}

// LoadFile overlays the TOML file at path onto c. Relative paths in the file
// are resolved against the file's directory. Unknown keys are reported as
// warnings on logger and otherwise ignored.
func (c *Config) LoadFile(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", logging.Path(path), "keys", keys)
	}

	base := filepath.Dir(path)
	if fc.Credentials != "" {
		c.CredentialsPath = resolvePath(base, fc.Credentials)
	}
	if fc.Token != "" {
		c.TokenPath = resolvePath(base, fc.Token)
	}
	if fc.Logging != nil {
		if fc.Logging.Level != "" {
			c.LogLevel = fc.Logging.Level
		}
		if fc.Logging.Format != "" {
			c.LogFormat = fc.Logging.Format
		}
	}

	return nil
}

// Validate checks that the configuration can be used for a run.
func (c *Config) Validate() error {
	var errs []error

	if c.CredentialsPath == "" {
		errs = append(errs, errors.New("credentials path is required"))
	}
	if c.TokenPath == "" {
		errs = append(errs, errors.New("token path is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q, must be one of: text, json", c.LogFormat))
	}
	if err := c.Instrumentation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("instrumentation: %w", err))
	}

	return errors.Join(errs...)
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// executableDir returns the directory holding the running binary, falling
// back to the working directory when it cannot be determined.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
