package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"shortgen/internal/services"
	"shortgen/internal/transcription"
)

const sampleJSON = `{"text":" Salut à tous.","language":"fr","segments":[{"start":0.0,"end":1.5,"text":" Salut"},{"start":1.5,"end":2.3,"text":" à tous."}]}`

// fakeWhisper writes sampleJSON where the CLI would and records the arguments.
func fakeWhisper(t *testing.T, captured *[]string, payload string) CommandRunner {
	t.Helper()
	return func(_ context.Context, name string, args ...string) error {
		*captured = append([]string{name}, args...)
		outputDir := args[slices.Index(args, "--output_dir")+1]
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		return os.WriteFile(filepath.Join(outputDir, base+".json"), []byte(payload), 0o644)
	}
}

func TestTranscribeParsesOutput(t *testing.T) {
	var captured []string
	svc := New(Config{Binary: "/opt/whisper", WorkDir: t.TempDir()}).WithCommandRunner(fakeWhisper(t, &captured, sampleJSON))

	result, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "/audio/voice.mp3", Language: "fr", Model: "small"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Text != " Salut à tous." || result.Language != "fr" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Segments) != 2 || result.Segments[1].End != 2.3 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Model != "small" || result.Backend != BackendName {
		t.Fatalf("unexpected metadata %+v", result)
	}

	if captured[0] != "/opt/whisper" || captured[1] != "/audio/voice.mp3" {
		t.Fatalf("unexpected command %v", captured)
	}
	joined := strings.Join(captured, " ")
	for _, want := range []string{"--model small", "--output_format json", "--language fr", "--verbose False"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
}

func TestTranscribeOmitsLanguageForDetection(t *testing.T) {
	var captured []string
	svc := New(Config{WorkDir: t.TempDir()}).WithCommandRunner(fakeWhisper(t, &captured, sampleJSON))
	if _, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "a.wav"}); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if slices.Contains(captured, "--language") {
		t.Fatalf("expected no language flag, got %v", captured)
	}
	if captured[slices.Index(captured, "--model")+1] != "base" {
		t.Fatalf("expected default model, got %v", captured)
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	svc := New(Config{WorkDir: t.TempDir()}).WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	_, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "a.wav"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	svc := New(Config{WorkDir: t.TempDir()}).WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	_, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "a.wav"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestTranscribeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := New(Config{WorkDir: t.TempDir()}).WithCommandRunner(func(ctx context.Context, _ string, _ ...string) error {
		return ctx.Err()
	})
	_, err := svc.Transcribe(ctx, transcription.Request{AudioPath: "a.wav"})
	if !errors.Is(err, services.ErrTimeout) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected timeout marker wrapping cancellation, got %v", err)
	}
}
