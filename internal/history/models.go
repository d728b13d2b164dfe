package history

import "time"

// Run is one recorded pipeline run.
type Run struct {
	ID               int64     `json:"id"`
	RunID            string    `json:"run_id"`
	Topic            string    `json:"topic"`
	Language         string    `json:"language,omitempty"`
	Style            string    `json:"style,omitempty"`
	Voice            string    `json:"voice,omitempty"`
	Script           string    `json:"script,omitempty"`
	AudioPath        string    `json:"audio_path,omitempty"`
	SubtitlePath     string    `json:"subtitle_path,omitempty"`
	SubtitleFormat   string    `json:"subtitle_format,omitempty"`
	DetectedLanguage string    `json:"detected_language,omitempty"`
	Status           string    `json:"status"`
	Messages         []string  `json:"messages"`
	ErrorKind        string    `json:"error_kind,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Duration is the wall time of the run, or zero when it never finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.CreatedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}
