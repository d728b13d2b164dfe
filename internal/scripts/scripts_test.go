package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openai/openai-go/v3/option"

	"shortgen/internal/config"
	"shortgen/internal/services"
	"shortgen/internal/services/httpretry"
	"shortgen/internal/services/llm"
)

type fakeProvider struct {
	system string
	user   string
	reply  string
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.user = userPrompt
	return f.reply, f.err
}

func noRetry() ProviderOption {
	return WithLLMOptions(llm.WithRetryPolicy(httpretry.Policy{MaxAttempts: 1, Sleeper: func(time.Duration) {}}))
}

func TestLanguageLabel(t *testing.T) {
	tests := map[string]string{
		"🇫🇷 Français": "Français",
		"🇺🇸 Anglais":  "Anglais",
		"Espagnol":    "Espagnol",
		"  ":          "",
	}
	for in, want := range tests {
		if got := LanguageLabel(in); got != want {
			t.Errorf("LanguageLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSystemPromptMentionsLanguageAndStyle(t *testing.T) {
	prompt := SystemPrompt("🇩🇪 Allemand", "Style humoristique")
	for _, want := range []string{"vidéo Allemand", "suivre un Style humoristique", "60-90 secondes", "150-200 mots", "3-4 points clés", "1 seul bloc de texte"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(SystemPrompt("Français", ""), Styles[0]) {
		t.Error("empty style should use the default style")
	}
}

func TestEnsureMarkdown(t *testing.T) {
	tests := map[string]string{
		"# Titre":        "# Titre",
		"**Gras** texte": "**Gras** texte",
		"  # indenté":    "  # indenté",
		"Texte brut":     "# Script généré\n\nTexte brut",
	}
	for in, want := range tests {
		if got := EnsureMarkdown(in); got != want {
			t.Errorf("EnsureMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeneratorBuildsPrompts(t *testing.T) {
	provider := &fakeProvider{reply: "Texte du script"}
	gen := NewGenerator(provider, nil)

	got, err := gen.Generate(context.Background(), Request{Topic: "  la motivation  ", Language: "🇺🇸 Anglais", Style: "Style informatif"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Texte du script" {
		t.Fatalf("unexpected script %q", got)
	}
	if provider.user != "la motivation" {
		t.Fatalf("unexpected user prompt %q", provider.user)
	}
	if !strings.Contains(provider.system, "vidéo Anglais") || !strings.Contains(provider.system, "Style informatif") {
		t.Fatalf("unexpected system prompt %q", provider.system)
	}
}

func TestGeneratorDefaultsLanguage(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	if _, err := NewGenerator(provider, nil).Generate(context.Background(), Request{Topic: "x"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(provider.system, "vidéo Français") {
		t.Fatalf("expected French default, got %q", provider.system)
	}
}

func TestGeneratorErrors(t *testing.T) {
	if _, err := NewGenerator(&fakeProvider{}, nil).Generate(context.Background(), Request{Topic: " "}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := NewGenerator(&fakeProvider{reply: "  "}, nil).Generate(context.Background(), Request{Topic: "x"}); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for empty reply, got %v", err)
	}
	boom := errors.New("boom")
	_, err := NewGenerator(&fakeProvider{err: boom}, nil).Generate(context.Background(), Request{Topic: "x"})
	if !errors.Is(err, boom) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestNewProviderRequiresCredential(t *testing.T) {
	for _, name := range []string{"gemini", "openrouter", "openai", ""} {
		_, err := NewProvider(config.LLMConfig{Provider: name}, nil)
		if !errors.Is(err, ErrMissingCredential) || !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("%q: expected ErrMissingCredential, got %v", name, err)
		}
	}
	if _, err := NewProvider(config.LLMConfig{Provider: "mistral", APIKey: "k"}, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown provider, got %v", err)
	}
}

func TestChatProviderFallsBackToSecondModel(t *testing.T) {
	var mu sync.Mutex
	var models []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		models = append(models, body.Model)
		mu.Unlock()
		if body.Model == "primary" {
			http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "# Script"}}},
		})
	}))
	defer server.Close()

	provider, err := NewProvider(config.LLMConfig{
		Provider:      "gemini",
		APIKey:        "k",
		BaseURL:       server.URL,
		Model:         "primary",
		FallbackModel: "secondary",
	}, nil, noRetry())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	got, err := provider.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "# Script" {
		t.Fatalf("unexpected content %q", got)
	}
	if strings.Join(models, ",") != "primary,secondary" {
		t.Fatalf("unexpected model sequence %v", models)
	}
}

func TestChatProviderWithoutFallbackReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	provider, err := NewProvider(config.LLMConfig{Provider: "openrouter", APIKey: "k", BaseURL: server.URL, Model: "m"}, nil, noRetry())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	_, err = provider.Complete(context.Background(), "system", "user")
	var statusErr *httpretry.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestOpenAIProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model %v", body["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"**Bonjour**"}}]}`))
	}))
	defer server.Close()

	provider, err := NewProvider(config.LLMConfig{Provider: "openai", APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, nil,
		WithOpenAIOptions(option.WithMaxRetries(0)))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider.Name() != ProviderOpenAI {
		t.Fatalf("unexpected name %q", provider.Name())
	}
	got, err := provider.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "**Bonjour**" {
		t.Fatalf("unexpected content %q", got)
	}
}
