package transcription

import (
	"context"
	"strings"
)

// ModelSizes lists the Whisper model sizes offered to users, smallest first.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// Segment is one timed span of recognized speech. Times are seconds from the
// start of the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Request describes one transcription call.
type Request struct {
	AudioPath string
	// Language is an ISO 639-1 hint; empty asks the backend to detect it.
	Language string
	Model    string
}

// Result is the oracle output. Segments keep the order the backend produced.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
	Duration float64   `json:"duration,omitempty"`
	Model    string    `json:"model,omitempty"`
	Backend  string    `json:"backend,omitempty"`
}

// Transcriber turns an audio file into text and timed segments.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (Result, error)
}

// JoinSegmentText concatenates trimmed segment text with single spaces. It is
// used when a backend reports segments without a top-level transcript.
func JoinSegmentText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// LastEnd returns the largest segment end time, or zero without segments.
func LastEnd(segments []Segment) float64 {
	var last float64
	for _, seg := range segments {
		if seg.End > last {
			last = seg.End
		}
	}
	return last
}
