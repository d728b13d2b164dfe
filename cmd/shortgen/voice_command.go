package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shortgen/internal/services/elevenlabs"
)

func newVoiceCommand(ctx *commandContext) *cobra.Command {
	var voice string

	cmd := &cobra.Command{
		Use:   "voice <script-file|->",
		Short: "Synthesize narration audio from a script",
		Long:  "Voice reads a markdown script from a file, or from stdin when the argument is -, and renders it with ElevenLabs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(voice) == "" {
				voice = cfg.Voice.DefaultVoice
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			path, status, err := buildVoiceClient(cfg, logger).Synthesize(cmd.Context(), text, voice)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, status)
			fmt.Fprintln(out, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", fmt.Sprintf("Voice preset (%s); defaults to voice.default_voice", strings.Join(elevenlabs.VoiceNames(), ", ")))
	return cmd
}

func readScript(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read script from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "voices",
		Short:       "List the available voice presets",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(elevenlabs.Presets))
			for _, preset := range elevenlabs.Presets {
				rows = append(rows, []string{preset.Name, preset.ID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Voice", "ElevenLabs ID"}, rows, nil))
			return nil
		},
	}
}
