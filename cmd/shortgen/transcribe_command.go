package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortgen/internal/logging"
	"shortgen/internal/subtitles"
	"shortgen/internal/transcription"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		modelSize  string
		lang       string
		outputPath string
		format     string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe an audio file to plain text or timed subtitles",
		Long: "Transcribe runs the configured speech-to-text backend over an audio file.\n" +
			"Use --format subtitle for numbered subtitle blocks and --language auto to let\n" +
			"the backend detect the spoken language.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := logging.NewNop()
			if !quiet {
				if logger, err = ctx.ensureLogger(); err != nil {
					return err
				}
			}
			aligner, err := buildAligner(cfg, logger)
			if err != nil {
				return err
			}

			outcome := aligner.Transcribe(cmd.Context(), subtitles.Request{
				AudioPath:  args[0],
				ModelSize:  modelSize,
				Language:   lang,
				OutputPath: outputPath,
				Format:     format,
				Quiet:      quiet,
			})
			if !outcome.OK() {
				return errors.New(outcome.Diagnostic)
			}

			out := cmd.OutOrStdout()
			if outcome.OutputPath != "" {
				if !quiet {
					fmt.Fprintf(out, "Saved to %s\n", outcome.OutputPath)
				}
				return nil
			}
			fmt.Fprintln(out, outcome.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelSize, "model", "m", "base", "Model size ("+strings.Join(transcription.ModelSizes, ", ")+")")
	cmd.Flags().StringVarP(&lang, "language", "l", "fr", "Spoken language code or name; auto to detect")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", string(subtitles.FormatPlain), "Output format: plain or subtitle")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress status output")
	return cmd
}
