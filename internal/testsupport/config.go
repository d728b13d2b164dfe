package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"shortgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Script.APIKey = "test-script-key"
	cfgVal.Voice.APIKey = "test-voice-key"
	cfgVal.History.Path = filepath.Join(base, "logs", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithScriptProvider points the script generator at a provider and endpoint.
func WithScriptProvider(provider, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Script.Provider = provider
		b.cfg.Script.BaseURL = baseURL
	}
}

// WithVoiceBaseURL points the voice synthesizer at a test server.
func WithVoiceBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Voice.BaseURL = baseURL
	}
}

// WithoutCredentials clears every API key on the test config.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Script.APIKey = ""
		b.cfg.Voice.APIKey = ""
		b.cfg.Transcription.APIKey = ""
	}
}

// WithBackend selects the transcription backend.
func WithBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Backend = name
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default whisper binary is
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"whisper"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
