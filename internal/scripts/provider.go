package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"shortgen/internal/config"
	"shortgen/internal/logging"
	"shortgen/internal/services"
	"shortgen/internal/services/llm"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"

	defaultOpenAIModel = "gpt-4o-mini"
)

// ErrMissingCredential is returned before any request when the provider has
// no API key.
var ErrMissingCredential = fmt.Errorf("%w: script provider api key required", services.ErrConfiguration)

// Provider produces a completion for a system and user prompt pair.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProviderOption customizes provider construction.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	llmOptions    []llm.Option
	openaiOptions []option.RequestOption
}

// WithLLMOptions forwards options to the shared chat client used by the gemini
// and openrouter providers.
func WithLLMOptions(opts ...llm.Option) ProviderOption {
	return func(o *providerOptions) {
		o.llmOptions = append(o.llmOptions, opts...)
	}
}

// WithOpenAIOptions forwards request options to the OpenAI SDK client.
func WithOpenAIOptions(opts ...option.RequestOption) ProviderOption {
	return func(o *providerOptions) {
		o.openaiOptions = append(o.openaiOptions, opts...)
	}
}

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger, opts ...ProviderOption) (Provider, error) {
	var options providerOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderGemini
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w (%s)", ErrMissingCredential, name)
	}
	logger = logging.NewComponentLogger(logger, "scripts")

	switch name {
	case ProviderGemini, ProviderOpenRouter:
		client := llm.NewClient(llm.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			Referer:        cfg.Referer,
			Title:          cfg.Title,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}, options.llmOptions...)
		return &chatProvider{
			name:     name,
			client:   client,
			fallback: strings.TrimSpace(cfg.FallbackModel),
			logger:   logger,
		}, nil
	case ProviderOpenAI:
		reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if base := strings.TrimSpace(cfg.BaseURL); base != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(base))
		}
		if cfg.TimeoutSeconds > 0 {
			reqOpts = append(reqOpts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
		}
		reqOpts = append(reqOpts, options.openaiOptions...)
		model := strings.TrimSpace(cfg.Model)
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIProvider{client: openai.NewClient(reqOpts...), model: model}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "scripts", "select provider",
			fmt.Sprintf("unsupported provider %q", cfg.Provider), nil)
	}
}

type chatProvider struct {
	name     string
	client   *llm.Client
	fallback string
	logger   *slog.Logger
}

func (p *chatProvider) Name() string { return p.name }

// Complete tries the primary model and, when a fallback model is configured,
// retries once with it.
func (p *chatProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content, err := p.client.Complete(ctx, systemPrompt, userPrompt)
	if err == nil {
		return content, nil
	}
	if p.fallback == "" || p.fallback == p.client.Model() || ctx.Err() != nil {
		return "", err
	}
	logging.WarnWithContext(p.logger, "primary model failed; trying fallback", "script_model_fallback",
		logging.String("provider", p.name),
		logging.String("model", p.client.Model()),
		logging.String("fallback_model", p.fallback),
		logging.Error(err),
		logging.String(logging.FieldImpact, "script will be drafted by the fallback model"),
	)
	content, fallbackErr := p.client.WithModel(p.fallback).Complete(ctx, systemPrompt, userPrompt)
	if fallbackErr != nil {
		return "", fmt.Errorf("fallback model %s: %w (primary: %v)", p.fallback, fallbackErr, err)
	}
	return content, nil
}

type openAIProvider struct {
	client openai.Client
	model  string
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(llm.DefaultTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	for _, choice := range completion.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", fmt.Errorf("openai chat completion: empty response")
}
