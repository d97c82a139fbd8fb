// Package services defines shared utilities consumed by the probe, command
// builder, runner, calibrator, and scheduler packages.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, component names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent queue statuses.
//
// Use these helpers when wiring new component logic so operational
// behaviour (error handling, observability) stays uniform across the
// pipeline.
package services
