package transcription

import (
	"encoding/json"
	"fmt"
	"os"

	"shortgen/internal/language"
)

// whisperPayload covers the JSON written by the whisper and whisperx CLIs and
// the verbose_json response of OpenAI-compatible transcription APIs.
type whisperPayload struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// DecodeWhisperJSON parses a Whisper-style transcript document. Reported
// language names such as "french" are normalized to ISO 639-1 when known.
func DecodeWhisperJSON(data []byte) (Result, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse whisper json: %w", err)
	}
	if payload.Segments == nil {
		payload.Segments = []Segment{}
	}
	result := Result{
		Text:     payload.Text,
		Language: payload.Language,
		Segments: payload.Segments,
		Duration: payload.Duration,
	}
	if iso := language.ToISO2(payload.Language); iso != "" {
		result.Language = iso
	}
	if result.Text == "" {
		result.Text = JoinSegmentText(result.Segments)
	}
	if result.Duration == 0 {
		result.Duration = LastEnd(result.Segments)
	}
	return result, nil
}

// LoadWhisperJSON reads and decodes a transcript document from disk.
func LoadWhisperJSON(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return DecodeWhisperJSON(data)
}
