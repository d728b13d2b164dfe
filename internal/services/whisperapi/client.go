package whisperapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shortgen/internal/services"
	"shortgen/internal/services/httpretry"
	"shortgen/internal/transcription"
)

const (
	// BackendName identifies this backend in configuration.
	BackendName        = "api"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "whisper-1"
	defaultHTTPTimeout = 5 * time.Minute
)

// ErrMissingAPIKey is returned before any upload when no key is configured.
var ErrMissingAPIKey = fmt.Errorf("%w: transcription api key required", services.ErrConfiguration)

// Config configures the remote transcription client.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
}

// Client is a transcription.Transcriber backed by an OpenAI-compatible
// /audio/transcriptions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      httpretry.Policy
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

// NewClient creates a remote transcription client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      httpretry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name returns the backend identifier.
func (c *Client) Name() string { return BackendName }

// Transcribe uploads the audio and parses the verbose_json response. The
// hosted service picks its own model size, so req.Model is recorded but the
// configured API model is what gets requested.
func (c *Client) Transcribe(ctx context.Context, req transcription.Request) (transcription.Result, error) {
	if c.cfg.APIKey == "" {
		return transcription.Result{}, ErrMissingAPIKey
	}
	audio, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrNotFound, "whisperapi", "read audio", req.AudioPath, err)
	}

	var result transcription.Result
	err = c.retry.Do(ctx, "whisperapi transcribe", func(ctx context.Context) error {
		body, contentType, err := buildForm(filepath.Base(req.AudioPath), audio, c.cfg.Model, req.Language)
		if err != nil {
			return err
		}
		parsed, err := c.post(ctx, body, contentType)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, "whisperapi", "transcribe", filepath.Base(req.AudioPath), err)
	}
	result.Model = c.cfg.Model
	result.Backend = BackendName
	return result, nil
}

func buildForm(fileName string, audio []byte, model, language string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}
	fields := [][2]string{
		{"model", model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	if lang := strings.TrimSpace(language); lang != "" {
		fields = append(fields, [2]string{"language", lang})
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func (c *Client) post(ctx context.Context, body io.Reader, contentType string) (transcription.Result, error) {
	endpoint := c.cfg.BaseURL + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if err := httpretry.CheckResponse("whisperapi", resp); err != nil {
		return transcription.Result{}, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("read response body: %w", err)
	}
	return transcription.DecodeWhisperJSON(data)
}
