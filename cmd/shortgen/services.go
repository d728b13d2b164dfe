package main

import (
	"log/slog"
	"time"

	"shortgen/internal/config"
	"shortgen/internal/history"
	"shortgen/internal/pipeline"
	"shortgen/internal/scripts"
	"shortgen/internal/services/elevenlabs"
	"shortgen/internal/services/whisper"
	"shortgen/internal/services/whisperapi"
	"shortgen/internal/services/whisperx"
	"shortgen/internal/subtitles"
	"shortgen/internal/transcription"
)

// newBackendRegistry registers every speech-to-text backend the config can select.
func newBackendRegistry(cfg *config.Config) *transcription.Registry {
	t := cfg.Transcription
	registry := transcription.NewRegistry()
	registry.Register(whisper.BackendName, whisper.New(whisper.Config{
		Binary:  t.Binary,
		Model:   t.Model,
		WorkDir: cfg.Paths.WorkDir,
	}))
	registry.Register(whisperx.BackendName, whisperx.NewService(whisperx.Config{
		CUDAEnabled: t.WhisperXCUDAEnabled,
		VADMethod:   t.WhisperXVADMethod,
		HFToken:     t.WhisperXHuggingFace,
		WorkDir:     cfg.Paths.WorkDir,
	}))
	registry.Register(whisperapi.BackendName, whisperapi.NewClient(whisperapi.Config{
		BaseURL:        t.APIBaseURL,
		APIKey:         t.APIKey,
		Model:          t.APIModel,
		TimeoutSeconds: t.TimeoutSeconds,
	}))
	return registry
}

func buildTranscriber(cfg *config.Config, logger *slog.Logger) (transcription.Transcriber, error) {
	backend, err := newBackendRegistry(cfg).Resolve(cfg.Transcription.Backend)
	if err != nil {
		return nil, err
	}
	if cfg.Transcription.CacheEnabled {
		return transcription.NewCache(backend, cfg.Paths.CacheDir, logger), nil
	}
	return backend, nil
}

func buildAligner(cfg *config.Config, logger *slog.Logger) (*subtitles.Aligner, error) {
	transcriber, err := buildTranscriber(cfg, logger)
	if err != nil {
		return nil, err
	}
	var opts []subtitles.Option
	if cfg.Transcription.TimeoutSeconds > 0 {
		opts = append(opts, subtitles.WithTimeout(time.Duration(cfg.Transcription.TimeoutSeconds)*time.Second))
	}
	return subtitles.NewAligner(transcriber, logger, opts...), nil
}

func buildGenerator(cfg *config.Config, logger *slog.Logger) (*scripts.Generator, error) {
	provider, err := scripts.NewProvider(cfg.ScriptLLM(), logger)
	if err != nil {
		return nil, err
	}
	return scripts.NewGenerator(provider, logger), nil
}

func buildVoiceClient(cfg *config.Config, logger *slog.Logger) *elevenlabs.Client {
	return elevenlabs.NewClient(elevenlabs.Config{
		APIKey:         cfg.Voice.APIKey,
		BaseURL:        cfg.Voice.BaseURL,
		ModelID:        cfg.Voice.ModelID,
		OutputFormat:   cfg.Voice.OutputFormat,
		AudioDir:       cfg.Paths.AudioDir,
		TimeoutSeconds: cfg.Voice.TimeoutSeconds,
	}, elevenlabs.WithLogger(logger))
}

// buildRunner wires the full pipeline. The returned closer releases the
// history store when one was opened.
func buildRunner(cfg *config.Config, logger *slog.Logger) (*pipeline.Runner, func(), error) {
	generator, err := buildGenerator(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	aligner, err := buildAligner(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	var opts []pipeline.Option
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithRecorder(store))
		closer = func() { _ = store.Close() }
	}
	return pipeline.NewRunner(generator, buildVoiceClient(cfg, logger), aligner, logger, opts...), closer, nil
}
