package pipeline

import (
	"time"
)

// Status summarizes how far a run got.
type Status string

const (
	// StatusCompleted means script, audio, and subtitles were all produced.
	StatusCompleted Status = "completed"
	// StatusPartial means audio exists but subtitles could not be produced.
	StatusPartial Status = "partial"
	// StatusFailed means no audio was produced.
	StatusFailed Status = "failed"
)

// StepState is the outcome of a single step.
type StepState string

const (
	StepOK      StepState = "ok"
	StepFailed  StepState = "failed"
	StepSkipped StepState = "skipped"
)

// Step names.
const (
	StepScript    = "script"
	StepVoice     = "voice"
	StepSubtitles = "subtitles"
	StepHistory   = "history"
)

// StepResult records one step of a run.
type StepResult struct {
	Name     string        `json:"name"`
	State    StepState     `json:"state"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report is the user-facing result of a run.
type Report struct {
	RunID            string       `json:"run_id"`
	HistoryID        int64        `json:"history_id,omitempty"`
	Topic            string       `json:"topic"`
	Script           string       `json:"script,omitempty"`
	AudioPath        string       `json:"audio_path,omitempty"`
	SubtitlePath     string       `json:"subtitle_path,omitempty"`
	SubtitleFormat   string       `json:"subtitle_format,omitempty"`
	DetectedLanguage string       `json:"detected_language,omitempty"`
	CueCount         int          `json:"cue_count,omitempty"`
	Status           Status       `json:"status"`
	Messages         []string     `json:"messages"`
	ErrorKind        string       `json:"error_kind,omitempty"`
	Steps            []StepResult `json:"steps"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
}

// Elapsed is the wall time of the run.
func (r Report) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) addStep(name string, state StepState, message string, started, finished time.Time) {
	r.Steps = append(r.Steps, StepResult{Name: name, State: state, Message: message, Duration: finished.Sub(started)})
}

func (r *Report) addMessage(message string) {
	if message != "" {
		r.Messages = append(r.Messages, message)
	}
}
