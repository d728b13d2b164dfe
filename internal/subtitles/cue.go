package subtitles

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"shortgen/internal/transcription"
)

// Cue is one numbered subtitle entry. Start and End are rendered timestamps.
type Cue struct {
	Index int
	Start string
	End   string
	Text  string
}

// BuildCues maps segments one-to-one onto cues numbered from 1. Segment order
// is kept as the oracle reported it; overlapping or reversed spans pass through.
func BuildCues(segments []transcription.Segment) []Cue {
	cues := make([]Cue, 0, len(segments))
	for i, seg := range segments {
		cues = append(cues, Cue{
			Index: i + 1,
			Start: FormatTimestamp(seg.Start),
			End:   FormatTimestamp(seg.End),
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return cues
}

// Render serializes cues as a subtitle document. Blocks are separated by a
// blank line and the document carries no trailing whitespace.
func Render(cues []Cue) string {
	var b strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", cue.Index, cue.Start, cue.End, cue.Text)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// ParseDocument reads a rendered subtitle document back into cues. Timestamps
// are kept as text; use ParseTimestamp to check them.
func ParseDocument(content string) ([]Cue, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []Cue
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid cue index %q", i+1, lines[i])
		}
		i++
		if i >= len(lines) {
			return nil, fmt.Errorf("cue %d: missing timing line", index)
		}
		start, end, ok := strings.Cut(lines[i], "-->")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid timing line %q", i+1, lines[i])
		}
		i++
		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, lines[i])
			i++
		}
		cues = append(cues, Cue{
			Index: index,
			Start: strings.TrimSpace(start),
			End:   strings.TrimSpace(end),
			Text:  strings.Join(text, "\n"),
		})
	}
	return cues, nil
}
