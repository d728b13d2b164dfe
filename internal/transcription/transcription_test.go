package transcription_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"shortgen/internal/logging"
	"shortgen/internal/services"
	"shortgen/internal/transcription"
)

type countingTranscriber struct {
	mu     sync.Mutex
	calls  int
	result transcription.Result
	err    error
}

func (c *countingTranscriber) Name() string { return "counting" }

func (c *countingTranscriber) Transcribe(_ context.Context, _ transcription.Request) (transcription.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.result, c.err
}

func writeAudio(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestDecodeWhisperJSON(t *testing.T) {
	data := []byte(`{
		"text": " Bonjour tout le monde.",
		"language": "french",
		"segments": [
			{"id": 0, "start": 0.0, "end": 2.5, "text": " Bonjour"},
			{"id": 1, "start": 2.5, "end": 4.0, "text": " tout le monde."}
		]
	}`)
	result, err := transcription.DecodeWhisperJSON(data)
	if err != nil {
		t.Fatalf("DecodeWhisperJSON returned error: %v", err)
	}
	if result.Text != " Bonjour tout le monde." {
		t.Fatalf("text must be kept verbatim, got %q", result.Text)
	}
	if result.Language != "fr" {
		t.Fatalf("expected language normalized to fr, got %q", result.Language)
	}
	if len(result.Segments) != 2 || result.Segments[1].Start != 2.5 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Duration != 4.0 {
		t.Fatalf("expected duration from last segment, got %v", result.Duration)
	}
}

func TestDecodeWhisperJSONWithoutText(t *testing.T) {
	result, err := transcription.DecodeWhisperJSON([]byte(`{"segments":[{"start":0,"end":1,"text":" a "},{"start":1,"end":2,"text":"b"}]}`))
	if err != nil {
		t.Fatalf("DecodeWhisperJSON returned error: %v", err)
	}
	if result.Text != "a b" {
		t.Fatalf("expected joined segment text, got %q", result.Text)
	}
	if _, err := transcription.DecodeWhisperJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestDecodeWhisperJSONEmptySegments(t *testing.T) {
	result, err := transcription.DecodeWhisperJSON([]byte(`{"text":"","language":"en"}`))
	if err != nil {
		t.Fatalf("DecodeWhisperJSON returned error: %v", err)
	}
	if result.Segments == nil || len(result.Segments) != 0 {
		t.Fatalf("expected empty non-nil segments, got %#v", result.Segments)
	}
}

func TestRegistryResolve(t *testing.T) {
	registry := transcription.NewRegistry()
	backend := &countingTranscriber{}
	registry.Register("Whisper", backend)

	got, err := registry.Resolve("whisper")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != backend {
		t.Fatal("expected registered backend")
	}

	_, err = registry.Resolve("vosk")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "whisper" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestCacheReusesResultForSameAudio(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "a.mp3", "audio-bytes")
	inner := &countingTranscriber{result: transcription.Result{
		Text:     "salut",
		Language: "fr",
		Segments: []transcription.Segment{{Start: 0, End: 1, Text: "salut"}},
	}}
	cache := transcription.NewCache(inner, filepath.Join(dir, "cache"), logging.NewNop())
	req := transcription.Request{AudioPath: audio, Language: "fr", Model: "base"}

	first, err := cache.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cache.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected one backend call, got %d", inner.calls)
	}
	if second.Text != first.Text || len(second.Segments) != 1 {
		t.Fatalf("cached result differs: %+v vs %+v", second, first)
	}
	if cache.Name() != "counting" {
		t.Fatalf("unexpected name %q", cache.Name())
	}

	// Same bytes under another name share the entry.
	copyPath := writeAudio(t, dir, "copy.mp3", "audio-bytes")
	if _, err := cache.Transcribe(context.Background(), transcription.Request{AudioPath: copyPath, Language: "fr", Model: "base"}); err != nil {
		t.Fatalf("copy call: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected content-addressed hit, got %d calls", inner.calls)
	}
}

func TestCacheKeyDependsOnParameters(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir, "a.mp3", "audio-bytes")
	cache := transcription.NewCache(&countingTranscriber{}, dir, nil)

	base, _, err := cache.Key(transcription.Request{AudioPath: audio, Model: "base", Language: "fr"})
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	for _, req := range []transcription.Request{
		{AudioPath: audio, Model: "small", Language: "fr"},
		{AudioPath: audio, Model: "base", Language: ""},
	} {
		other, _, err := cache.Key(req)
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if other == base {
			t.Fatalf("expected distinct key for %+v", req)
		}
	}
}

func TestCacheIgnoresCorruptEntryAndErrors(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	audio := writeAudio(t, dir, "a.mp3", "audio-bytes")
	inner := &countingTranscriber{result: transcription.Result{Text: "ok", Segments: []transcription.Segment{}}}
	cache := transcription.NewCache(inner, cacheDir, logging.NewNop())
	req := transcription.Request{AudioPath: audio, Model: "base"}

	key, _, err := cache.Key(req)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, key+".json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Transcribe(context.Background(), req); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected corrupt entry to trigger transcription, got %d calls", inner.calls)
	}
	if _, err := cache.Transcribe(context.Background(), req); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected rewritten entry to be reused, got %d calls", inner.calls)
	}

	failing := &countingTranscriber{err: errors.New("boom")}
	other := transcription.NewCache(failing, t.TempDir(), logging.NewNop())
	if _, err := other.Transcribe(context.Background(), req); err == nil {
		t.Fatal("expected backend error to propagate")
	}
	if _, err := other.Transcribe(context.Background(), req); err == nil || failing.calls != 2 {
		t.Fatalf("failures must not be cached: calls=%d err=%v", failing.calls, err)
	}
}

func TestCacheMissingAudioDelegates(t *testing.T) {
	inner := &countingTranscriber{err: errors.New("no such file")}
	cache := transcription.NewCache(inner, t.TempDir(), logging.NewNop())
	if _, err := cache.Transcribe(context.Background(), transcription.Request{AudioPath: "/nonexistent.mp3"}); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Fatalf("expected delegation, got %d calls", inner.calls)
	}
}

func TestJoinSegmentTextAndLastEnd(t *testing.T) {
	segments := []transcription.Segment{{Start: 3, End: 5, Text: " b"}, {Start: 0, End: 4, Text: ""}, {Start: 1, End: 2, Text: "a "}}
	if got := transcription.JoinSegmentText(segments); got != "b a" {
		t.Fatalf("JoinSegmentText = %q", got)
	}
	if got := transcription.LastEnd(segments); got != 5 {
		t.Fatalf("LastEnd = %v", got)
	}
}
