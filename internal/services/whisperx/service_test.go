package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"shortgen/internal/services"
	"shortgen/internal/transcription"
)

func writeWhisperXOutput(args []string, payload string) error {
	outputDir := args[slices.Index(args, "--output_dir")+1]
	source := args[slices.Index(args, "whisperx")+1]
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return os.WriteFile(filepath.Join(outputDir, base+".json"), []byte(payload), 0o644)
}

func TestTranscribeJoinsSegmentText(t *testing.T) {
	var captured []string
	svc := NewService(Config{WorkDir: t.TempDir()}).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		captured = append([]string{name}, args...)
		return writeWhisperXOutput(args, `{"language":"fr","segments":[{"start":0.1,"end":1.2,"text":" Bonjour","words":[]},{"start":1.2,"end":2.0,"text":"à tous "}]}`)
	})

	result, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "/tmp/voice.mp3", Language: "fr", Model: "large"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Text != "Bonjour à tous" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Model != DefaultModel || result.Backend != BackendName {
		t.Fatalf("unexpected metadata %+v", result)
	}
	if captured[0] != UVXCommand {
		t.Fatalf("expected uvx launcher, got %v", captured)
	}
	joined := strings.Join(captured, " ")
	for _, want := range []string{"--model large-v3", "--language fr", "--device cpu", "--vad_method silero", "--output_format json"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
}

func TestBuildArgsCUDAAndPyannote(t *testing.T) {
	svc := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf"})
	args := strings.Join(svc.buildArgs("a.mp3", "/out", "medium", ""), " ")
	for _, want := range []string{"--extra-index-url", "--device cuda", "--hf_token hf", "--model medium"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in %q", want, args)
		}
	}
	if strings.Contains(args, "--language") {
		t.Fatalf("expected no language flag for detection, got %q", args)
	}
}

func TestTranscribeFailure(t *testing.T) {
	svc := NewService(Config{WorkDir: t.TempDir()}).WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("uvx: not found")
	})
	_, err := svc.Transcribe(context.Background(), transcription.Request{AudioPath: "a.mp3"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestTranscribeHonorsDeadlineWhenLauncherSpawnsChildren(t *testing.T) {
	bin := t.TempDir()
	script := "#!/bin/sh\n[ \"$TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD\" = \"1\" ] || exit 7\nsh -c 'sleep 3; echo finished' &\nwait\n"
	if err := os.WriteFile(filepath.Join(bin, UVXCommand), []byte(script), 0o755); err != nil {
		t.Fatalf("write fake launcher: %v", err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD", "")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := NewService(Config{WorkDir: t.TempDir()}).Transcribe(ctx, transcription.Request{AudioPath: "/tmp/voice.mp3"})
	elapsed := time.Since(start)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("Transcribe returned after %s, expected the deadline to stop the launcher's children", elapsed)
	}
}
