// Package logging provides structured logging utilities for transferowner.
//
// All diagnostic output goes through log/slog on standard error so that
// standard output stays reserved for the operator-facing messages (the
// authorization URL, the code prompt and the transfer confirmation).
//
// # Usage Patterns
//
// Build the process logger once from configuration:
//
//	logger, err := logging.NewLogger(os.Stderr, "info", "text")
//
// Attach consistent attributes:
//
//	logger.Info("pending owner created",
//	    logging.Operation("drive.transfer_ownership"),
//	    logging.UserHash(email))
//
// # Security Considerations
//
//   - Target emails are hashed in operational logs; full emails only appear in
//     audit records when explicitly enabled
//   - Tokens are never logged directly, use SanitizeToken
package logging
