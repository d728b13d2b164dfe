package whisperx

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
const BackendName = "whisperx"

// Service provides WhisperX transcription through uvx.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *Service {
	s.commandRunner = runner
	return s
}

// Name returns the backend identifier.
func (s *Service) Name() string { return BackendName }

// Binary returns the launcher executable, for preflight checks.
func (s *Service) Binary() string { return UVXCommand }

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	var env []string
	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return procexec.Run(ctx, env, name, args...)
}

// Transcribe runs WhisperX on req.AudioPath and reads the JSON it writes.
// WhisperX reports no top-level text, so Text is the joined segment text.
func (s *Service) Transcribe(ctx context.Context, req transcription.Request) (transcription.Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return transcription.Result{}, services.Wrap(services.ErrValidation, "whisperx", "transcribe", "audio path required", nil)
	}

	outputDir, err := os.MkdirTemp(s.cfg.WorkDir, "whisperx-*")
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrTransient, "whisperx", "prepare output", "create scratch directory", err)
	}
	defer os.RemoveAll(outputDir)

	model := s.model(req.Model)
	args := s.buildArgs(req.AudioPath, outputDir, model, req.Language)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transcription.Result{}, services.Wrap(services.ErrTimeout, "whisperx", "transcribe", "transcription cancelled", ctxErr)
		}
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, "whisperx", "transcribe", "whisperx command failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	result, err := transcription.LoadWhisperJSON(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, "whisperx", "read output", "whisperx produced no readable transcript", err)
	}
	result.Model = model
	result.Backend = BackendName
	return result, nil
}

// model maps the user-facing size names onto WhisperX checkpoints.
func (s *Service) model(requested string) string {
	requested = strings.TrimSpace(requested)
	switch requested {
	case "":
		if s.cfg.Model != "" {
			return s.cfg.Model
		}
		return DefaultModel
	case "large":
		return DefaultModel
	default:
		return requested
	}
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, model, language string) []string {
	args := make([]string, 0, 40)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--best_of", BestOf,
		"--temperature", Temperature,
		"--patience", Patience,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := strings.TrimSpace(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}
