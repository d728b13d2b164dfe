package testsupport

import (
	"context"
	"sync"

	"shortgen/internal/transcription"
)

// StubTranscriber is an in-memory speech-to-text oracle that records calls.
type StubTranscriber struct {
	BackendName string
	Result      transcription.Result
	Err         error
	// Fn, when set, replaces Result and Err.
	Fn func(ctx context.Context, req transcription.Request) (transcription.Result, error)

	mu    sync.Mutex
	calls []transcription.Request
}

// Name returns BackendName, defaulting to "stub".
func (s *StubTranscriber) Name() string {
	if s.BackendName == "" {
		return "stub"
	}
	return s.BackendName
}

// Transcribe records req and returns the canned result.
func (s *StubTranscriber) Transcribe(ctx context.Context, req transcription.Request) (transcription.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.Fn != nil {
		return s.Fn(ctx, req)
	}
	if s.Err != nil {
		return transcription.Result{}, s.Err
	}
	return s.Result, nil
}

// Calls returns a copy of the recorded requests.
func (s *StubTranscriber) Calls() []transcription.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transcription.Request(nil), s.calls...)
}
