package preflight

import (
	"context"
	"fmt"
	"strings"

	"shortgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Options toggles checks that have side effects.
type Options struct {
	// Online issues a health-check completion against the script provider.
	Online bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	dirs := []struct {
		name string
		path string
	}{
		{"Work directory", cfg.Paths.WorkDir},
		{"Output directory", cfg.Paths.OutputDir},
		{"Audio directory", cfg.Paths.AudioDir},
		{"Log directory", cfg.Paths.LogDir},
	}
	if cfg.Transcription.CacheEnabled {
		dirs = append(dirs, struct {
			name string
			path string
		}{"Cache directory", cfg.Paths.CacheDir})
	}
	for _, dir := range dirs {
		results = append(results, CheckDirectoryAccess(dir.name, dir.path))
	}

	results = append(results,
		CheckCredential(fmt.Sprintf("Script API key (%s)", cfg.Script.Provider), cfg.Script.APIKey, false),
		CheckCredential("ElevenLabs API key", cfg.Voice.APIKey, false),
		CheckModelSize("Transcription model", cfg.Transcription.Model),
	)
	switch strings.ToLower(cfg.Transcription.Backend) {
	case "api":
		results = append(results, CheckCredential("Transcription API key", cfg.Transcription.APIKey, false))
	case "whisperx":
		if strings.EqualFold(cfg.Transcription.WhisperXVADMethod, "pyannote") {
			results = append(results, CheckCredential("Hugging Face token", cfg.Transcription.WhisperXHuggingFace, true))
		}
	}

	for _, status := range CheckBinaries(Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
		if status.Available {
			result.Detail = fmt.Sprintf("%s (found)", status.Command)
		} else {
			result.Detail = fmt.Sprintf("%s (%s)", status.Description, status.Detail)
		}
		results = append(results, result)
	}

	if opts.Online {
		results = append(results, CheckLLM(ctx, "Script LLM", cfg.ScriptLLM()))
	}
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
