// Package logging provides a simple leveled logging interface for the
// gallery inspector pipeline.
//
// It supports the following log levels:
//   - DEBUG: Per-file decode and copy detail
//   - INFO: Phase boundaries and run summaries
//   - WARN: Per-file degradation (unreadable metadata, skipped entries)
//   - ERROR: Absorbed failures that exclude a file from a run
//   - FATAL: Unrecoverable top-level errors
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=1.
package logging
