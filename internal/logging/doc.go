// Package logging assembles structured slog loggers and formatting helpers used
// across shortgen.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers that tag log lines with the
// pipeline step and correlation ID. NewNop provides the silent logger used
// for quiet runs and tests.
package logging
