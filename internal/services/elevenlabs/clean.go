package elevenlabs

import "strings"

// CleanMarkdown strips the markdown a script generator emits so it reads
// naturally aloud. Text that looks like plain prose is returned unchanged.
func CleanMarkdown(text string) string {
	if !strings.HasPrefix(text, "#") && !strings.Contains(text, "**") && !strings.Contains(text, "- ") {
		return text
	}
	text = strings.ReplaceAll(text, "#", "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "- ", ". ")

	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
