package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var info, debug bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee to be enabled when any handler accepts debug")
	}

	logger := slog.New(h).With("component", "test").WithGroup("g")
	logger.Debug("quiet detail", "k", "v")
	logger.Info("visible")

	if strings.Contains(info.String(), "quiet detail") {
		t.Fatalf("info handler received debug record: %q", info.String())
	}
	if !strings.Contains(info.String(), "visible") || !strings.Contains(info.String(), "component=test") {
		t.Fatalf("info handler missing record: %q", info.String())
	}
	if !strings.Contains(debug.String(), "g.k=v") {
		t.Fatalf("debug handler missing grouped attr: %q", debug.String())
	}
}
