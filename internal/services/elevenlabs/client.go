package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortgen/internal/logging"
	"shortgen/internal/services"
	"shortgen/internal/services/httpretry"
)

const (
	defaultBaseURL      = "https://api.elevenlabs.io"
	defaultModelID      = "eleven_multilingual_v2"
	defaultOutputFormat = "mp3_44100_128"
	defaultHTTPTimeout  = 120 * time.Second

	// StatusSuccess is reported alongside the audio path.
	StatusSuccess = "Audio généré avec succès!"
)

// ErrMissingCredential is returned before any request when no key is configured.
var ErrMissingCredential = fmt.Errorf("%w: elevenlabs api key required", services.ErrConfiguration)

// Config configures the text-to-speech client.
type Config struct {
	APIKey         string
	BaseURL        string
	ModelID        string
	OutputFormat   string
	AudioDir       string
	TimeoutSeconds int
}

// Client synthesizes narration audio.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      httpretry.Policy
	logger     *slog.Logger
	newName    func() string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy httpretry.Policy) Option {
	return func(c *Client) { c.retry = policy }
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "voice")
		}
	}
}

// NewClient constructs a client. Credentials are checked when Synthesize runs.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = defaultModelID
	}
	if strings.TrimSpace(cfg.OutputFormat) == "" {
		cfg.OutputFormat = defaultOutputFormat
	}
	if strings.TrimSpace(cfg.AudioDir) == "" {
		cfg.AudioDir = "temp_audio"
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      httpretry.DefaultPolicy(),
		logger:     logging.NewComponentLogger(nil, "voice"),
		newName:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize renders text with the named preset voice and returns the path of
// the saved MP3 together with a status message for display.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (string, string, error) {
	if c.cfg.APIKey == "" {
		return "", "", ErrMissingCredential
	}
	voiceID, err := ResolveVoice(voice)
	if err != nil {
		return "", "", err
	}
	clean := CleanMarkdown(text)
	if strings.TrimSpace(clean) == "" {
		return "", "", services.Wrap(services.ErrValidation, "voice", "synthesize", "script text is empty", nil)
	}
	if err := os.MkdirAll(c.cfg.AudioDir, 0o755); err != nil {
		return "", "", services.Wrap(services.ErrConfiguration, "voice", "prepare audio dir", c.cfg.AudioDir, err)
	}

	body, err := json.Marshal(speechRequest{Text: clean, ModelID: c.cfg.ModelID})
	if err != nil {
		return "", "", fmt.Errorf("voice: encode body: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.cfg.BaseURL, url.PathEscape(voiceID), url.QueryEscape(c.cfg.OutputFormat))
	target := filepath.Join(c.cfg.AudioDir, c.newName()+".mp3")

	logger := logging.WithContext(ctx, c.logger)
	logger.Info("synthesizing narration",
		logging.String("voice", voice),
		logging.Int("chars", len(clean)),
	)
	err = c.retry.Do(ctx, "elevenlabs synthesize", func(ctx context.Context) error {
		return c.download(ctx, endpoint, body, target)
	})
	if err != nil {
		return "", "", services.Wrap(services.ErrExternalTool, "voice", "synthesize", "text-to-speech request failed", err)
	}
	logger.Info("narration audio saved", logging.String("path", target))
	return target, StatusSuccess, nil
}

func (c *Client) download(ctx context.Context, endpoint string, body []byte, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	if err := httpretry.CheckResponse("elevenlabs synthesize", resp); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tts-*.part")
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	tmpName := tmp.Name()
	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil || written == 0 {
		_ = os.Remove(tmpName)
		switch {
		case copyErr != nil:
			return fmt.Errorf("stream audio: %w", copyErr)
		case closeErr != nil:
			return fmt.Errorf("close audio file: %w", closeErr)
		default:
			return &emptyAudioError{}
		}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod audio file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize audio file: %w", err)
	}
	return nil
}

type emptyAudioError struct{}

func (*emptyAudioError) Error() string   { return "elevenlabs returned an empty audio stream" }
func (*emptyAudioError) Retryable() bool { return true }
