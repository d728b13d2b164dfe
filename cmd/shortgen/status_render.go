package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"shortgen/internal/pipeline"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// stepKind maps a pipeline step outcome onto a display status.
func stepKind(state pipeline.StepState) statusKind {
	switch state {
	case pipeline.StepOK:
		return statusOK
	case pipeline.StepFailed:
		return statusError
	case pipeline.StepSkipped:
		return statusWarn
	default:
		return statusInfo
	}
}

// runKind maps the overall run status onto a display status.
func runKind(status pipeline.Status) statusKind {
	switch status {
	case pipeline.StatusCompleted:
		return statusOK
	case pipeline.StatusPartial:
		return statusWarn
	default:
		return statusError
	}
}

// renderReport formats a finished run: one line per step followed by the
// produced artifacts.
func renderReport(report pipeline.Report, colorize bool) []string {
	lines := renderSectionHeader("shortgen: "+report.Topic, colorize)
	for _, step := range report.Steps {
		lines = append(lines, renderStatusLine(step.Name, stepKind(step.State), step.Message, colorize))
	}
	lines = append(lines, renderStatusLine("status", runKind(report.Status), string(report.Status), colorize))

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Artifacts", colorize)...)
	artifact := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", value))
	}
	artifact("run", report.RunID)
	artifact("audio", report.AudioPath)
	artifact("subtitles", report.SubtitlePath)
	if report.DetectedLanguage != "" {
		artifact("language", report.DetectedLanguage)
	}
	artifact("elapsed", report.Elapsed().Round(10*time.Millisecond).String())
	for _, message := range report.Messages {
		lines = append(lines, statusIndent+message)
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
