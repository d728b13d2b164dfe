package subtitles

import (
	"errors"
	"fmt"

	"shortgen/internal/services"
)

var (
	// ErrAudioNotFound reports a missing, unreadable, or non-regular audio path.
	ErrAudioNotFound = errors.New("audio file not found")
	// ErrOracleFailure reports that speech recognition failed or timed out.
	ErrOracleFailure = errors.New("transcription failed")
	// ErrOutputWrite reports that the result could not be written to disk.
	ErrOutputWrite = errors.New("output write failed")
	// ErrUnsupportedFormat reports an output format outside plain and subtitle.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// FailureKind classifies a failed Outcome.
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureAudioNotFound  FailureKind = "audio_not_found"
	FailureOracle         FailureKind = "oracle_failure"
	FailureOutputWrite    FailureKind = "output_write_failure"
)

// failureError tags err with both the package sentinel and the shared service
// marker so callers can match either.
func failureError(sentinel, marker error, operation, message string, err error) error {
	return fmt.Errorf("%w: %w", sentinel, services.Wrap(marker, "subtitles", operation, message, err))
}
