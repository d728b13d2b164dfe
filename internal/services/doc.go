// Package services defines shared utilities consumed by the pipeline steps and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and step names for
//     logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (configuration vs external tool vs not found) without string
//     matching.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the script, voice, and subtitle steps.
package services
