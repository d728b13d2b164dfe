package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// timeLayout is fixed width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run              Run
		language         sql.NullString
		style            sql.NullString
		voice            sql.NullString
		script           sql.NullString
		audioPath        sql.NullString
		subtitlePath     sql.NullString
		subtitleFormat   sql.NullString
		detectedLanguage sql.NullString
		messagesRaw      sql.NullString
		errorKind        sql.NullString
		createdRaw       string
		finishedRaw      sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.Topic,
		&language,
		&style,
		&voice,
		&script,
		&audioPath,
		&subtitlePath,
		&subtitleFormat,
		&detectedLanguage,
		&run.Status,
		&messagesRaw,
		&errorKind,
		&createdRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Language = language.String
	run.Style = style.String
	run.Voice = voice.String
	run.Script = script.String
	run.AudioPath = audioPath.String
	run.SubtitlePath = subtitlePath.String
	run.SubtitleFormat = subtitleFormat.String
	run.DetectedLanguage = detectedLanguage.String
	run.ErrorKind = errorKind.String
	if messagesRaw.Valid && messagesRaw.String != "" {
		if err := json.Unmarshal([]byte(messagesRaw.String), &run.Messages); err != nil {
			return nil, err
		}
	}
	run.CreatedAt = parseTime(createdRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
