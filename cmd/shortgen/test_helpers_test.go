package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shortgen/internal/config"
	"shortgen/internal/testsupport"
)

const transcriptJSON = `{"text":" Bonjour tout le monde","language":"french","duration":4.0,` +
	`"segments":[{"start":0,"end":2.3,"text":" Bonjour"},{"start":2.3,"end":4.0,"text":" tout le monde"}]}`

// fakeServices serves the script, voice, and transcription endpoints from one
// test server and records what the CLI sent.
type fakeServices struct {
	server *httptest.Server

	mu        sync.Mutex
	languages []string
	voices    []string
	chats     int
}

func newFakeServices(t *testing.T) *fakeServices {
	t.Helper()
	f := &fakeServices{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat map[string]string `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.chats++
		f.mu.Unlock()
		content := "Voici un script sur le sujet."
		if body.ResponseFormat != nil {
			content = `{"ok":true}`
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	})
	mux.HandleFunc("POST /v1/text-to-speech/{voice}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.voices = append(f.voices, r.PathValue("voice"))
		f.mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-audio"))
	})
	mux.HandleFunc("POST /audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.languages = append(f.languages, r.FormValue("language"))
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, transcriptJSON)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServices) sentLanguages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.languages...)
}

func (f *fakeServices) chatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chats
}

func (f *fakeServices) sentVoices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.voices...)
}

type cliTestEnv struct {
	cfg        *config.Config
	services   *fakeServices
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config that points every remote service at a
// local fake and selects the HTTP transcription backend. Tweaks run before the
// config is written.
func setupCLITestEnv(t *testing.T, tweaks ...func(*config.Config)) *cliTestEnv {
	t.Helper()

	fake := newFakeServices(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithScriptProvider("gemini", fake.server.URL+"/chat/completions"),
		testsupport.WithVoiceBaseURL(fake.server.URL),
		testsupport.WithBackend("api"),
	)
	cfg.Transcription.APIBaseURL = fake.server.URL
	cfg.Transcription.APIKey = "test-transcription-key"
	cfg.Logging.Level = "error"
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "shortgen.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		services:   fake,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeAudio(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "narration.mp3")
	testsupport.WriteAudio(t, path, 2048)
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
