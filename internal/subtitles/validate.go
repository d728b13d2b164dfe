package subtitles

import (
	"fmt"
	"math"
	"strings"
)

// durationTolerance is how far the last cue may run past the audio.
const durationTolerance = 5.0

// Validate checks a subtitle document for format issues. An empty slice means
// no issues were found. audioSeconds of zero skips the duration check.
func Validate(content string, audioSeconds float64) []string {
	var issues []string

	if strings.TrimSpace(content) == "" {
		return append(issues, "empty_subtitle_file")
	}
	cues, err := ParseDocument(content)
	if err != nil {
		return append(issues, fmt.Sprintf("parse_error: %v", err))
	}
	if len(cues) == 0 {
		return append(issues, "empty_subtitle_file")
	}

	var last float64
	found := false
	for _, cue := range cues {
		start, errStart := ParseTimestamp(cue.Start)
		end, errEnd := ParseTimestamp(cue.End)
		if errStart == nil {
			found = true
		}
		if errEnd == nil {
			found = true
			last = math.Max(last, end)
		}
		if errStart == nil && errEnd == nil && end < start {
			issues = append(issues, fmt.Sprintf("cue_end_before_start:%d", cue.Index))
		}
	}
	if !found {
		return append(issues, "no_valid_timestamps")
	}

	if audioSeconds > 0 {
		if delta := last - audioSeconds; delta > durationTolerance {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
		}
	}
	return issues
}
