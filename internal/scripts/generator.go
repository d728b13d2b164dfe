package scripts

import (
	"context"
	"log/slog"
	"strings"

	"shortgen/internal/logging"
	"shortgen/internal/services"
)

// Request describes one script to draft.
type Request struct {
	Topic    string
	Language string
	Style    string
}

// Generator drafts narration scripts through a Provider.
type Generator struct {
	provider Provider
	logger   *slog.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(provider Provider, logger *slog.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "scripts"),
	}
}

// Generate returns the provider's script for req. The text is returned as the
// provider wrote it; callers that display it apply EnsureMarkdown.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return "", services.Wrap(services.ErrValidation, "scripts", "generate", "topic is required", nil)
	}
	if g.provider == nil {
		return "", services.Wrap(services.ErrConfiguration, "scripts", "generate", "no provider configured", nil)
	}
	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = Languages[0]
	}
	logger := logging.WithContext(ctx, g.logger)
	logger.Info("generating script",
		logging.String("provider", g.provider.Name()),
		logging.String("language", LanguageLabel(language)),
		logging.String("style", req.Style),
	)

	script, err := g.provider.Complete(ctx, SystemPrompt(language, req.Style), topic)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "scripts", "generate",
			"script generation failed", err)
	}
	if strings.TrimSpace(script) == "" {
		return "", services.Wrap(services.ErrExternalTool, "scripts", "generate", "provider returned an empty script", nil)
	}
	logger.Debug("script generated", logging.Int("chars", len(script)))
	return script, nil
}
