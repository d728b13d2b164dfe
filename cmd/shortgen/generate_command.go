package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortgen/internal/logging"
	"shortgen/internal/pipeline"
	"shortgen/internal/scripts"
	"shortgen/internal/transcription"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		lang         string
		style        string
		voice        string
		provider     string
		modelSize    string
		transcribeTo string
		format       string
		outputDir    string
		jsonOutput   bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Run the full pipeline: script, voice, and subtitles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.UseScriptProvider(provider); err != nil {
				return err
			}
			logger := logging.NewNop()
			if !quiet && !jsonOutput {
				if logger, err = ctx.ensureLogger(); err != nil {
					return err
				}
			}
			runner, closeRunner, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer closeRunner()

			job := pipeline.Job{
				Topic:              strings.Join(args, " "),
				Language:           lang,
				Style:              style,
				Voice:              firstNonEmpty(voice, cfg.Voice.DefaultVoice),
				ModelSize:          firstNonEmpty(modelSize, cfg.Transcription.Model),
				TranscribeLanguage: firstNonEmpty(transcribeTo, cfg.Transcription.Language),
				Format:             firstNonEmpty(format, cfg.Transcription.Format),
				OutputDir:          firstNonEmpty(outputDir, cfg.Paths.OutputDir),
				Quiet:              quiet,
			}
			report := runner.Run(cmd.Context(), job)

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range renderReport(report, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
			}
			if report.Status == pipeline.StatusFailed {
				return fmt.Errorf("generate failed: %s", lastMessage(report))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "language", scripts.Languages[0], "Script language selector")
	cmd.Flags().StringVar(&style, "style", scripts.Styles[0], "Narration style")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice preset; defaults to voice.default_voice")
	cmd.Flags().StringVar(&provider, "provider", "", "Override the configured script provider")
	cmd.Flags().StringVarP(&modelSize, "model", "m", "", "Transcription model size ("+strings.Join(transcription.ModelSizes, ", ")+"); defaults to transcription.model")
	cmd.Flags().StringVar(&transcribeTo, "transcribe-language", "", "Language hint for subtitles, or auto; defaults to transcription.language")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Subtitle output format; defaults to transcription.format")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the subtitle file; defaults to paths.output_dir")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run report as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress status logging")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func lastMessage(report pipeline.Report) string {
	if len(report.Messages) == 0 {
		return string(report.Status)
	}
	return report.Messages[len(report.Messages)-1]
}
