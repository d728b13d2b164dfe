package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shortgen/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var online bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, credentials, and directories for the configured pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Online: online})
			for _, line := range renderSectionHeader("shortgen doctor", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				kind := statusOK
				switch {
				case !result.Passed && result.Optional:
					kind = statusWarn
				case !result.Passed:
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if !online {
				fmt.Fprintln(out, renderStatusLine("Script LLM", statusInfo, "skipped (use --online)", colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "Also send a health-check request to the script provider")
	return cmd
}
