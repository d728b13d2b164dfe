package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shortgen/internal/fileutil"
	"shortgen/internal/scripts"
	"shortgen/internal/textutil"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	var (
		lang     string
		style    string
		provider string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "script <topic>",
		Short: "Draft a narration script for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.UseScriptProvider(provider); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			generator, err := buildGenerator(cfg, logger)
			if err != nil {
				return err
			}
			script, err := generator.Generate(cmd.Context(), scripts.Request{
				Topic:    strings.Join(args, " "),
				Language: lang,
				Style:    style,
			})
			if err != nil {
				return err
			}
			markdown := scripts.EnsureMarkdown(script)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, markdown)
			if save {
				target := filepath.Join(cfg.Paths.OutputDir, textutil.Slug(strings.Join(args, " "), textutil.DefaultSlugLength)+".md")
				if err := fileutil.WriteFileAtomic(target, []byte(markdown+"\n"), 0o644); err != nil {
					return fmt.Errorf("save script: %w", err)
				}
				fmt.Fprintf(out, "Saved to %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "language", scripts.Languages[0], fmt.Sprintf("Script language (one of %s)", strings.Join(scripts.Languages, ", ")))
	cmd.Flags().StringVar(&style, "style", scripts.Styles[0], "Narration style")
	cmd.Flags().BoolVar(&save, "save", false, "Also write the script to paths.output_dir as <topic>.md")
	cmd.Flags().StringVar(&provider, "provider", "", "Override the configured provider (gemini, openrouter, openai)")
	return cmd
}
