package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	AudioDir  string `toml:"audio_dir"`
	LogDir    string `toml:"log_dir"`
	CacheDir  string `toml:"cache_dir"`
}

// Script contains settings for the narration script generator.
type Script struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	FallbackModel  string `toml:"fallback_model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Voice contains settings for the ElevenLabs voice synthesizer.
type Voice struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	ModelID        string `toml:"model_id"`
	OutputFormat   string `toml:"output_format"`
	DefaultVoice   string `toml:"default_voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Transcription contains settings for the speech-to-text backends and the
// subtitle aligner.
type Transcription struct {
	Backend             string `toml:"backend"`
	Model               string `toml:"model"`
	Language            string `toml:"language"`
	Format              string `toml:"format"`
	Binary              string `toml:"binary"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	CacheEnabled        bool   `toml:"cache_enabled"`
	APIBaseURL          string `toml:"api_base_url"`
	APIKey              string `toml:"api_key"`
	APIModel            string `toml:"api_model"`
	WhisperXCUDAEnabled bool   `toml:"whisperx_cuda_enabled"`
	WhisperXVADMethod   string `toml:"whisperx_vad_method"`
	WhisperXHuggingFace string `toml:"whisperx_hf_token"`
}

// History contains configuration for the pipeline run history.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shortgen.
//
// Configuration sections by subsystem:
//   - Paths: working, output, audio, log, and cache directories
//   - Script: narration script generation via an LLM provider
//   - Voice: ElevenLabs text-to-speech
//   - Transcription: speech-to-text backend and subtitle defaults
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Script        Script        `toml:"script"`
	Voice         Voice         `toml:"voice"`
	Transcription Transcription `toml:"transcription"`
	History       History       `toml:"history"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shortgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A .env file in the working directory is
// loaded first so credentials can live outside the TOML file; variables that
// are already set are never overridden.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shortgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.AudioDir, c.Paths.LogDir}
	if c.Transcription.CacheEnabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the connection settings for the script generator.
type LLMConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModel  string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// ScriptLLM returns the script generator connection settings.
func (c *Config) ScriptLLM() LLMConfig {
	return LLMConfig{
		Provider:       c.Script.Provider,
		APIKey:         strings.TrimSpace(c.Script.APIKey),
		BaseURL:        strings.TrimSpace(c.Script.BaseURL),
		Model:          strings.TrimSpace(c.Script.Model),
		FallbackModel:  strings.TrimSpace(c.Script.FallbackModel),
		Referer:        strings.TrimSpace(c.Script.Referer),
		Title:          strings.TrimSpace(c.Script.Title),
		TimeoutSeconds: c.Script.TimeoutSeconds,
	}
}

// HistoryPath returns the SQLite database location for run history.
func (c *Config) HistoryPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.LogDir, "history.db")
}

// Redacted returns a copy of the configuration with credentials masked, for display.
func (c *Config) Redacted() Config {
	out := *c
	out.Script.APIKey = redact(out.Script.APIKey)
	out.Voice.APIKey = redact(out.Voice.APIKey)
	out.Transcription.APIKey = redact(out.Transcription.APIKey)
	out.Transcription.WhisperXHuggingFace = redact(out.Transcription.WhisperXHuggingFace)
	return out
}

func redact(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "********"
}

// UseScriptProvider switches the script generator to provider, resetting the
// provider specific endpoint, model, and key so defaults are re-derived.
func (c *Config) UseScriptProvider(provider string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || provider == c.Script.Provider {
		return nil
	}
	c.Script.Provider = provider
	c.Script.APIKey = ""
	c.Script.BaseURL = ""
	c.Script.Model = ""
	c.Script.FallbackModel = ""
	c.normalizeScript()
	return c.validateScript()
}
