package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"shortgen/internal/config"
	"shortgen/internal/services/httpretry"
	"shortgen/internal/services/llm"
	"shortgen/internal/transcription"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// CheckLLM verifies that the script provider is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	baseURL := cfg.BaseURL
	if baseURL == "" && strings.EqualFold(cfg.Provider, "openai") {
		baseURL = openAIChatURL
	}
	client := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryPolicy(httpretry.Policy{MaxAttempts: 1}))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckCredential reports whether a secret is configured without revealing it.
func CheckCredential(name, value string, optional bool) Result {
	if strings.TrimSpace(value) == "" {
		return Result{Name: name, Optional: optional, Detail: "missing (set it in config.toml or .env)"}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: "configured"}
}

// CheckModelSize flags a transcription model outside the offered sizes. It is
// optional because backends also accept their own checkpoint names.
func CheckModelSize(name, model string) Result {
	model = strings.TrimSpace(model)
	if slices.Contains(transcription.ModelSizes, model) {
		return Result{Name: name, Passed: true, Optional: true, Detail: model}
	}
	return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%q is not one of %s", model, strings.Join(transcription.ModelSizes, ", "))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return "API key missing"
	}
	return err.Error()
}
