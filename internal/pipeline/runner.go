package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortgen/internal/history"
	"shortgen/internal/logging"
	"shortgen/internal/scripts"
	"shortgen/internal/services"
	"shortgen/internal/subtitles"
)

// ScriptGenerator drafts narration scripts.
type ScriptGenerator interface {
	Generate(ctx context.Context, req scripts.Request) (string, error)
}

// VoiceSynthesizer renders narration audio and returns its path and a status message.
type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, string, error)
}

// SubtitleAligner produces transcripts or subtitles for an audio file.
type SubtitleAligner interface {
	Transcribe(ctx context.Context, req subtitles.Request) subtitles.Outcome
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Job describes one generate run.
type Job struct {
	Topic    string
	Language string
	Style    string
	Voice    string
	// ModelSize, TranscribeLanguage, and Format are forwarded to the aligner.
	ModelSize          string
	TranscribeLanguage string
	Format             string
	// OutputDir receives the subtitle file; empty uses the audio directory.
	OutputDir string
	Quiet     bool
}

// Runner executes jobs. It is safe for sequential reuse.
type Runner struct {
	script   ScriptGenerator
	voice    VoiceSynthesizer
	aligner  SubtitleAligner
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder stores each finished run.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a Runner.
func NewRunner(script ScriptGenerator, voice VoiceSynthesizer, aligner SubtitleAligner, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		script:  script,
		voice:   voice,
		aligner: aligner,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run executes job and returns its report. Step failures are reported, never
// returned as errors.
func (r *Runner) Run(ctx context.Context, job Job) Report {
	report := Report{
		RunID:     r.newID(),
		Topic:     strings.TrimSpace(job.Topic),
		Status:    StatusFailed,
		Messages:  []string{},
		StartedAt: r.now(),
	}
	ctx = services.WithRequestID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("generate started", logging.String("topic", report.Topic))

	if r.runScript(ctx, job, &report) && r.runVoice(ctx, job, &report) {
		r.runSubtitles(ctx, job, &report)
	}

	report.FinishedAt = r.now()
	r.record(ctx, job, &report)
	logger.Info("generate finished",
		logging.String("status", string(report.Status)),
		logging.Duration("elapsed", report.Elapsed()),
	)
	return report
}

func (r *Runner) runScript(ctx context.Context, job Job, report *Report) bool {
	ctx = services.WithStep(ctx, StepScript)
	started := r.now()
	if r.script == nil {
		r.failStep(ctx, report, StepScript, started, "Erreur lors de la génération du script: aucun fournisseur configuré",
			services.Wrap(services.ErrConfiguration, "pipeline", StepScript, "no script generator", nil))
		r.skip(report, StepVoice, StepSubtitles)
		return false
	}
	script, err := r.script.Generate(ctx, scripts.Request{Topic: job.Topic, Language: job.Language, Style: job.Style})
	if err != nil {
		r.failStep(ctx, report, StepScript, started, fmt.Sprintf("Erreur lors de la génération du script: %v", err), err)
		r.skip(report, StepVoice, StepSubtitles)
		return false
	}
	report.Script = scripts.EnsureMarkdown(script)
	report.addStep(StepScript, StepOK, "", started, r.now())
	return true
}

func (r *Runner) runVoice(ctx context.Context, job Job, report *Report) bool {
	ctx = services.WithStep(ctx, StepVoice)
	started := r.now()
	if r.voice == nil {
		r.failStep(ctx, report, StepVoice, started, "Erreur lors de la génération de l'audio: aucun synthétiseur configuré",
			services.Wrap(services.ErrConfiguration, "pipeline", StepVoice, "no voice synthesizer", nil))
		r.skip(report, StepSubtitles)
		return false
	}
	path, status, err := r.voice.Synthesize(ctx, report.Script, job.Voice)
	if err != nil || strings.TrimSpace(path) == "" {
		if err == nil {
			err = services.Wrap(services.ErrExternalTool, "pipeline", StepVoice, "no audio produced", nil)
		}
		r.failStep(ctx, report, StepVoice, started, fmt.Sprintf("Erreur lors de la génération de l'audio: %v", err), err)
		r.skip(report, StepSubtitles)
		return false
	}
	report.AudioPath = path
	report.Status = StatusPartial
	report.addMessage(status)
	report.addStep(StepVoice, StepOK, status, started, r.now())
	return true
}

func (r *Runner) runSubtitles(ctx context.Context, job Job, report *Report) {
	ctx = services.WithStep(ctx, StepSubtitles)
	started := r.now()
	if r.aligner == nil {
		r.failStep(ctx, report, StepSubtitles, started, "Erreur lors de la génération des sous-titres: aucun moteur configuré",
			services.Wrap(services.ErrConfiguration, "pipeline", StepSubtitles, "no aligner", nil))
		return
	}

	formatName := job.Format
	if strings.TrimSpace(formatName) == "" {
		formatName = string(subtitles.FormatSubtitle)
	}
	report.SubtitleFormat = formatName
	output := ""
	if format, err := subtitles.ParseFormat(formatName); err == nil {
		report.SubtitleFormat = string(format)
		output = subtitlePath(job.OutputDir, report.AudioPath, format)
		if job.OutputDir != "" {
			if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
				r.failStep(ctx, report, StepSubtitles, started,
					fmt.Sprintf("Erreur lors de la génération des sous-titres: %v", err),
					services.Wrap(services.ErrConfiguration, "pipeline", StepSubtitles, "create output dir", err))
				return
			}
		}
	}

	outcome := r.aligner.Transcribe(ctx, subtitles.Request{
		AudioPath:  report.AudioPath,
		ModelSize:  job.ModelSize,
		Language:   job.TranscribeLanguage,
		OutputPath: output,
		Format:     formatName,
		Quiet:      job.Quiet,
	})
	if !outcome.OK() {
		report.SubtitlePath = ""
		msg := "Erreur lors de la génération des sous-titres: " + outcome.Diagnostic
		report.addMessage(msg)
		report.ErrorKind = string(outcome.Failure())
		report.addStep(StepSubtitles, StepFailed, outcome.Diagnostic, started, r.now())
		return
	}
	report.SubtitlePath = outcome.OutputPath
	report.DetectedLanguage = outcome.DetectedLanguage
	report.CueCount = outcome.CueCount
	report.Status = StatusCompleted
	report.addMessage("Sous-titres générés avec succès!")
	report.addStep(StepSubtitles, StepOK, "", started, r.now())
}

func (r *Runner) failStep(ctx context.Context, report *Report, step string, started time.Time, message string, err error) {
	report.addMessage(message)
	report.ErrorKind = services.Classify(err)
	report.addStep(step, StepFailed, err.Error(), started, r.now())
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "pipeline step failed", "pipeline_step_failed",
		logging.String(logging.FieldStep, step),
		logging.Error(err),
		logging.String(logging.FieldImpact, "later steps that need this artifact are skipped"),
	)
}

func (r *Runner) skip(report *Report, steps ...string) {
	for _, step := range steps {
		report.Steps = append(report.Steps, StepResult{Name: step, State: StepSkipped})
	}
}

func (r *Runner) record(ctx context.Context, job Job, report *Report) {
	if r.recorder == nil || report.Topic == "" {
		return
	}
	run := &history.Run{
		RunID:            report.RunID,
		Topic:            report.Topic,
		Language:         scripts.LanguageLabel(job.Language),
		Style:            job.Style,
		Voice:            job.Voice,
		Script:           report.Script,
		AudioPath:        report.AudioPath,
		SubtitlePath:     report.SubtitlePath,
		SubtitleFormat:   report.SubtitleFormat,
		DetectedLanguage: report.DetectedLanguage,
		Status:           string(report.Status),
		Messages:         report.Messages,
		ErrorKind:        report.ErrorKind,
		CreatedAt:        report.StartedAt,
		FinishedAt:       report.FinishedAt,
	}
	if err := r.recorder.Record(ctx, run); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to record run", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will not appear in history"),
			logging.String(logging.FieldErrorHint, "check the history database path and permissions"),
		)
		return
	}
	report.HistoryID = run.ID
}

// subtitlePath places <audio base><ext> in dir, or next to the audio when dir is empty.
func subtitlePath(dir, audioPath string, format subtitles.Format) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Dir(audioPath)
	}
	return filepath.Join(dir, base+format.Extension())
}
