package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlugLength bounds slugs used as file names.
const DefaultSlugLength = 60

// Slug converts a topic such as "Les volcans d'Islande" into a lowercase,
// accent-free, dash separated token ("les-volcans-d-islande"). The result is
// cut at a dash boundary when it exceeds maxLen; maxLen <= 0 disables the cut.
// Returns "untitled" when nothing usable remains.
func Slug(value string, maxLen int) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		stripped = value
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if maxLen > 0 && len(out) > maxLen {
		out = out[:maxLen]
		if cut := strings.LastIndexByte(out, '-'); cut > 0 {
			out = out[:cut]
		}
		out = strings.Trim(out, "-")
	}
	if out == "" {
		return "untitled"
	}
	return out
}
