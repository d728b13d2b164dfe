package whisper

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"shortgen/internal/services"
	"shortgen/internal/services/procexec"
	"shortgen/internal/transcription"
)

// BackendName identifies this backend in configuration.
const BackendName = "whisper"

// DefaultBinary is the openai-whisper command line entry point.
const DefaultBinary = "whisper"

// CommandRunner executes name with args. Tests inject fakes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Config captures runtime settings for the whisper CLI backend.
type Config struct {
	Binary string
	Model  string
	// WorkDir holds per-call scratch directories; empty uses the system temp dir.
	WorkDir string
}

// Service transcribes audio by running the openai-whisper CLI and reading the
// JSON document it writes.
type Service struct {
	cfg    Config
	runner CommandRunner
}

// New creates a whisper CLI backend.
func New(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "base"
	}
	return &Service{cfg: cfg, runner: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) *Service {
	if runner != nil {
		s.runner = runner
	}
	return s
}

// Name returns the backend identifier.
func (s *Service) Name() string { return BackendName }

// Binary returns the configured executable, for preflight checks.
func (s *Service) Binary() string { return s.cfg.Binary }

// Transcribe runs whisper on req.AudioPath and parses its JSON output.
func (s *Service) Transcribe(ctx context.Context, req transcription.Request) (transcription.Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return transcription.Result{}, services.Wrap(services.ErrValidation, "whisper", "transcribe", "audio path required", nil)
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.cfg.Model
	}

	outputDir, err := os.MkdirTemp(s.cfg.WorkDir, "whisper-*")
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrTransient, "whisper", "prepare output", "create scratch directory", err)
	}
	defer os.RemoveAll(outputDir)

	args := buildArgs(req.AudioPath, model, req.Language, outputDir)
	if err := s.runner(ctx, s.cfg.Binary, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transcription.Result{}, services.Wrap(services.ErrTimeout, "whisper", "transcribe", "transcription cancelled", ctxErr)
		}
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "whisper command failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	result, err := transcription.LoadWhisperJSON(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, "whisper", "read output", "whisper produced no readable transcript", err)
	}
	result.Model = model
	result.Backend = BackendName
	return result, nil
}

func buildArgs(audioPath, model, language, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	if lang := strings.TrimSpace(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return append(args, "--verbose", "False")
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return procexec.Run(ctx, nil, name, args...)
}
