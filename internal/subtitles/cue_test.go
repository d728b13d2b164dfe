package subtitles

import (
	"testing"

	"shortgen/internal/transcription"
)

func TestRenderTwoSegments(t *testing.T) {
	segments := []transcription.Segment{
		{Start: 0.0, End: 1.5, Text: "Hello"},
		{Start: 1.5, End: 3.0, Text: "world"},
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n2\n00:00:01,500 --> 00:00:03,000\nworld"
	if got := Render(BuildCues(segments)); got != want {
		t.Fatalf("unexpected document:\n%q\nwant\n%q", got, want)
	}
}

func TestBuildCuesKeepsOrderAndTrimsText(t *testing.T) {
	segments := []transcription.Segment{
		{Start: 5, End: 6, Text: "  late  "},
		{Start: 1, End: 0.5, Text: "\tbackwards\n"},
		{Start: 5.5, End: 7, Text: "overlap"},
	}
	cues := BuildCues(segments)
	if len(cues) != len(segments) {
		t.Fatalf("expected %d cues, got %d", len(segments), len(cues))
	}
	wantText := []string{"late", "backwards", "overlap"}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("cue %d has index %d", i, cue.Index)
		}
		if cue.Text != wantText[i] {
			t.Fatalf("cue %d text = %q, want %q", i, cue.Text, wantText[i])
		}
	}
	if cues[1].Start != "00:00:01,000" || cues[1].End != "00:00:00,500" {
		t.Fatalf("reversed span was altered: %+v", cues[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(BuildCues(nil)); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
}

func TestRenderTrimsAllTrailingWhitespace(t *testing.T) {
	for _, text := range []string{"", "\v\f", "\u00a0\u2003", " \t"} {
		cues := []Cue{
			{Index: 1, Start: "00:00:00,000", End: "00:00:01,000", Text: "Salut"},
			{Index: 2, Start: "00:00:01,000", End: "00:00:02,000", Text: text},
		}
		want := "1\n00:00:00,000 --> 00:00:01,000\nSalut\n\n2\n00:00:01,000 --> 00:00:02,000"
		if got := Render(cues); got != want {
			t.Errorf("final text %q: got %q, want %q", text, got, want)
		}
	}
}

func TestParseDocumentRoundTrip(t *testing.T) {
	segments := []transcription.Segment{
		{Start: 0, End: 1.25, Text: "Bonjour à tous"},
		{Start: 1.25, End: 2, Text: ""},
		{Start: 2, End: 3661.234, Text: "la suite"},
	}
	doc := Render(BuildCues(segments))
	cues, err := ParseDocument(doc)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d: %+v", len(cues), cues)
	}
	if cues[2].End != "01:01:01,234" || cues[2].Text != "la suite" {
		t.Fatalf("unexpected last cue %+v", cues[2])
	}
	if again := Render(cues); again != doc {
		t.Fatalf("re-render differs:\n%q\n%q", again, doc)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	for _, doc := range []string{"x\n00:00:00,000 --> 00:00:01,000\nhi", "1", "1\nno timing"} {
		if _, err := ParseDocument(doc); err == nil {
			t.Errorf("ParseDocument(%q) expected error", doc)
		}
	}
}

func TestValidate(t *testing.T) {
	good := "1\n00:00:00,000 --> 00:00:01,500\nHello"
	tests := []struct {
		name    string
		content string
		audio   float64
		want    string
	}{
		{"empty", "  \n", 0, "empty_subtitle_file"},
		{"bad timestamps", "1\nfoo --> bar\nHello", 0, "no_valid_timestamps"},
		{"reversed", "1\n00:00:02,000 --> 00:00:01,000\nHello", 0, "cue_end_before_start:1"},
		{"too long", "1\n00:00:00,000 --> 00:00:20,000\nHello", 10, "duration_mismatch: delta=10.0s"},
		{"unparseable", "nope", 0, "parse_error: line 1: invalid cue index \"nope\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(tt.content, tt.audio)
			if len(issues) != 1 || issues[0] != tt.want {
				t.Fatalf("Validate = %v, want [%s]", issues, tt.want)
			}
		})
	}
	if issues := Validate(good, 3); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if issues := Validate(good, 0); len(issues) != 0 {
		t.Fatalf("expected no issues without duration, got %v", issues)
	}
}
