package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shortgen/internal/history"
	"shortgen/internal/language"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						strconv.FormatInt(run.ID, 10),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
						run.Status,
						run.Topic,
						run.Voice,
						formatDuration(run.Duration()),
					})
				}
				fmt.Fprintln(out, renderColumns([]column{
					{Header: "ID", Align: alignRight},
					{Header: "Created"},
					{Header: "Status"},
					{Header: "Topic", MaxWidth: 40},
					{Header: "Voice"},
					{Header: "Took", Align: alignRight},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit runs as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by numeric ID or run ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				if jsonOutput {
					return writeJSON(cmd, run)
				}
				out := cmd.OutOrStdout()
				fields := [][2]string{
					{"ID", strconv.FormatInt(run.ID, 10)},
					{"Run ID", run.RunID},
					{"Topic", run.Topic},
					{"Status", run.Status},
					{"Language", languageLabel(run.Language)},
					{"Style", run.Style},
					{"Voice", run.Voice},
					{"Audio", run.AudioPath},
					{"Subtitles", run.SubtitlePath},
					{"Format", run.SubtitleFormat},
					{"Detected", languageLabel(run.DetectedLanguage)},
					{"Error kind", run.ErrorKind},
					{"Created", run.CreatedAt.Local().Format(time.RFC3339)},
					{"Took", formatDuration(run.Duration())},
				}
				for _, field := range fields {
					value := field[1]
					if strings.TrimSpace(value) == "" {
						value = "-"
					}
					fmt.Fprintf(out, "%-12s %s\n", field[0]+":", value)
				}
				for _, message := range run.Messages {
					fmt.Fprintf(out, "%-12s %s\n", "Message:", message)
				}
				if run.Script != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, run.Script)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run as JSON")
	return cmd
}

// withHistory opens the run history for the duration of fn.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled (set history.enabled = true)")
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}

// languageLabel appends the English name to a language code, as in "fr (French)".
func languageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	name := language.DisplayName(code)
	if strings.EqualFold(name, code) {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, name)
}
