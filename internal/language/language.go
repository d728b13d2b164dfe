package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the sentinel that asks the speech-to-text oracle to detect the
// spoken language itself.
const Auto = "auto"

// whisperCodes lists the languages the Whisper family handles well enough to
// be offered as hints. Word forms such as "french" resolve through these.
var whisperCodes = []string{
	"en", "fr", "es", "de", "it", "pt", "nl", "pl", "sv", "da", "no", "fi",
	"ru", "uk", "cs", "ro", "hu", "el", "tr", "ar", "he", "fa", "hi", "ur",
	"bn", "ta", "ja", "ko", "zh", "vi", "th", "id", "ms", "ca", "eu", "gl",
	"cy", "ga", "is", "lt", "lv", "et", "sk", "sl", "hr", "sr", "bg", "af",
}

// bibliographic maps ISO 639-2/B codes to their ISO 639-1 equivalent.
var bibliographic = map[string]string{
	"fre": "fr",
	"ger": "de",
	"chi": "zh",
	"dut": "nl",
	"gre": "el",
	"cze": "cs",
	"rum": "ro",
	"per": "fa",
	"wel": "cy",
	"ice": "is",
	"slo": "sk",
	"baq": "eu",
}

var byWord map[string]string

func init() {
	names := display.English.Languages()
	byWord = make(map[string]string, len(whisperCodes))
	for _, code := range whisperCodes {
		tag := xlanguage.MustParse(code)
		if name := names.Name(tag); name != "" {
			byWord[strings.ToLower(name)] = code
		}
	}
	// Whisper reports these under alternate English names.
	byWord["castilian"] = "es"
	byWord["flemish"] = "nl"
	byWord["mandarin"] = "zh"
}

// IsAuto reports whether code requests language detection. Empty input counts
// as auto.
func IsAuto(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	return code == "" || code == Auto
}

func parseBase(code string) (xlanguage.Base, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == Auto {
		return xlanguage.Base{}, false
	}
	if mapped, ok := bibliographic[code]; ok {
		code = mapped
	}
	if mapped, ok := byWord[code]; ok {
		code = mapped
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Base{}, false
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No {
		return xlanguage.Base{}, false
	}
	return base, true
}

// ToISO2 converts any recognized language code, BCP 47 tag, or English word
// to ISO 639-1. Returns empty string for unrecognized input and for auto.
func ToISO2(code string) string {
	base, ok := parseBase(code)
	if !ok {
		return ""
	}
	value := base.String()
	if len(value) != 2 {
		return ""
	}
	return value
}

// Hint returns the value to forward to the oracle: empty for auto, the ISO
// 639-1 code when recognized, otherwise the trimmed input so the oracle can
// decide for itself.
func Hint(code string) string {
	if IsAuto(code) {
		return ""
	}
	if iso := ToISO2(code); iso != "" {
		return iso
	}
	return strings.TrimSpace(code)
}

// DisplayName returns the English language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	base, ok := parseBase(code)
	if !ok {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
