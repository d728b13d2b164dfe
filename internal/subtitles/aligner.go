package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"shortgen/internal/fileutil"
	"shortgen/internal/language"
	"shortgen/internal/logging"
	"shortgen/internal/services"
	"shortgen/internal/transcription"
)

// Format selects the shape of the transcription output.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatSubtitle Format = "subtitle"
)

// ParseFormat resolves a user supplied format name, accepting the txt/text and
// srt aliases.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "plain", "txt", "text":
		return FormatPlain, nil
	case "subtitle", "srt":
		return FormatSubtitle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// Extension returns the file extension conventionally used for the format.
func (f Format) Extension() string {
	if f == FormatSubtitle {
		return ".srt"
	}
	return ".txt"
}

func (f Format) kind() string {
	if f == FormatSubtitle {
		return "subtitles"
	}
	return "transcript"
}

// Request is one transcription call.
type Request struct {
	AudioPath string
	ModelSize string
	// Language is "auto" (or empty) for detection, otherwise a language code
	// or name forwarded to the oracle as a hint.
	Language string
	// OutputPath, when set, receives the content. Parent directories must exist.
	OutputPath string
	Format     string
	// Quiet suppresses status logging only; the Outcome is unaffected.
	Quiet bool
}

// Outcome is the result of Transcribe. A failed Outcome has empty Content and a
// Diagnostic suitable for display.
type Outcome struct {
	Content          string
	Diagnostic       string
	Err              error
	DetectedLanguage string
	CueCount         int
	OutputPath       string
	Issues           []string
	Elapsed          time.Duration

	failure FailureKind
}

// OK reports whether the call produced content.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Failure returns the failure kind, or FailureNone on success.
func (o Outcome) Failure() FailureKind {
	return o.failure
}

// Aligner turns narration audio into plain transcripts or timed subtitles.
type Aligner struct {
	transcriber transcription.Transcriber
	logger      *slog.Logger
	timeout     time.Duration
	now         func() time.Time
}

// Option customizes an Aligner.
type Option func(*Aligner)

// WithTimeout bounds each oracle call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Aligner) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithClock overrides the clock used for elapsed time reporting.
func WithClock(now func() time.Time) Option {
	return func(a *Aligner) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAligner constructs an Aligner around the speech-to-text oracle.
func NewAligner(transcriber transcription.Transcriber, logger *slog.Logger, opts ...Option) *Aligner {
	a := &Aligner{
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "subtitles"),
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Transcribe runs the oracle over req.AudioPath and renders the requested
// format. Every failure is reported through the Outcome; nothing is returned
// as a separate error and nothing panics.
func (a *Aligner) Transcribe(ctx context.Context, req Request) Outcome {
	started := a.now()
	logger := a.logger
	if req.Quiet {
		logger = logging.NewNop()
	}
	logger = logging.WithContext(ctx, logger)

	if err := checkAudio(req.AudioPath); err != nil {
		return a.fail(logger, FailureAudioNotFound, fmt.Sprintf("Audio file not found: %s", req.AudioPath),
			failureError(ErrAudioNotFound, services.ErrNotFound, "check audio", req.AudioPath, err))
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		return a.fail(logger, FailureInvalidRequest, fmt.Sprintf("Unsupported format %q (use plain or subtitle)", req.Format),
			services.Wrap(services.ErrValidation, "subtitles", "parse format", "", err))
	}
	if a.transcriber == nil {
		return a.fail(logger, FailureOracle, "No transcription backend configured",
			failureError(ErrOracleFailure, services.ErrConfiguration, "transcribe", "no backend", nil))
	}

	auto := language.IsAuto(req.Language)
	hint := language.Hint(req.Language)
	logger.Debug("transcription started",
		logging.String("audio", req.AudioPath),
		logging.String("model", req.ModelSize),
		logging.String("language", displayHint(hint)),
		logging.String("format", string(format)),
		logging.String("backend", a.transcriber.Name()),
	)

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	result, err := a.transcriber.Transcribe(callCtx, transcription.Request{
		AudioPath: req.AudioPath,
		Language:  hint,
		Model:     req.ModelSize,
	})
	if err != nil {
		return a.fail(logger, FailureOracle, fmt.Sprintf("An error occurred during transcription: %v", err),
			failureError(ErrOracleFailure, services.ErrExternalTool, "transcribe", a.transcriber.Name(), err))
	}

	outcome := Outcome{DetectedLanguage: result.Language}
	if auto {
		detected := result.Language
		if strings.TrimSpace(detected) == "" {
			detected = "unknown"
		}
		logger.Info("detected language",
			logging.String("language", detected),
			logging.String("language_name", language.DisplayName(result.Language)),
		)
	}

	switch format {
	case FormatSubtitle:
		cues := BuildCues(result.Segments)
		outcome.Content = Render(cues)
		outcome.CueCount = len(cues)
		outcome.Issues = Validate(outcome.Content, result.Duration)
		for _, issue := range outcome.Issues {
			logging.WarnWithContext(logger, "subtitle validation issue", "subtitle_validation",
				logging.String("issue", issue),
				logging.String(logging.FieldErrorHint, "inspect the oracle segments for this audio"),
				logging.String(logging.FieldImpact, "subtitles were produced but may display incorrectly"),
			)
		}
	default:
		outcome.Content = result.Text
	}

	if req.OutputPath != "" {
		if err := os.WriteFile(req.OutputPath, []byte(outcome.Content), 0o644); err != nil {
			return a.fail(logger, FailureOutputWrite, fmt.Sprintf("Could not write %s: %v", req.OutputPath, err),
				failureError(ErrOutputWrite, services.ErrTransient, "write output", req.OutputPath, err))
		}
		outcome.OutputPath = req.OutputPath
		logger.Info(format.kind()+" saved", logging.String("path", req.OutputPath))
	} else {
		logger.Info(format.kind()+" ready", logging.Int("content_length", len(outcome.Content)))
		logger.Debug(format.kind(), logging.String("content", outcome.Content))
	}

	outcome.Elapsed = a.now().Sub(started)
	logger.Debug("transcription finished",
		logging.Int("cues", outcome.CueCount),
		logging.Duration("elapsed", outcome.Elapsed),
	)
	return outcome
}

func (a *Aligner) fail(logger *slog.Logger, kind FailureKind, diagnostic string, err error) Outcome {
	logging.ErrorWithContext(logger, diagnostic, "transcription_failed",
		logging.String("failure", string(kind)),
		logging.Error(err),
	)
	return Outcome{Diagnostic: diagnostic, Err: err, failure: kind}
}

func checkAudio(path string) error {
	if strings.TrimSpace(path) == "" {
		return os.ErrNotExist
	}
	if !fileutil.IsRegularFile(path) {
		return fmt.Errorf("%s is not a regular file: %w", path, os.ErrNotExist)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func displayHint(hint string) string {
	if hint == "" {
		return language.Auto
	}
	return hint
}
