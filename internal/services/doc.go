// Package services defines shared utilities consumed by the build pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and source paths for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent process exit codes (success vs empty input vs error).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the tool.
package services
