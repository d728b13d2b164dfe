package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"shortgen/internal/config"
	"shortgen/internal/services/whisper"
	"shortgen/internal/services/whisperx"
)

// Requirement defines an external binary shortgen relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a binary.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured transcription backend needs.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	switch strings.ToLower(cfg.Transcription.Backend) {
	case whisperx.BackendName:
		return []Requirement{{
			Name:        "uvx",
			Command:     whisperx.UVXCommand,
			Description: "Required for WhisperX-driven transcription",
		}}
	case "api":
		return nil
	default:
		binary := strings.TrimSpace(cfg.Transcription.Binary)
		if binary == "" {
			binary = whisper.DefaultBinary
		}
		return []Requirement{{
			Name:        "Whisper",
			Command:     binary,
			Description: "Required for local transcription (pip install openai-whisper)",
		}}
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
