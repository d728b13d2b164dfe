package elevenlabs

import (
	"fmt"
	"strings"

	"shortgen/internal/services"
)

// ErrUnknownVoice is returned for a voice name outside Presets.
var ErrUnknownVoice = fmt.Errorf("%w: unknown voice", services.ErrValidation)

// Voice is a named ElevenLabs voice preset.
type Voice struct {
	Name string
	ID   string
}

// Presets are the voices offered for narration.
var Presets = []Voice{
	{Name: "River", ID: "SAz9YHcvj6GT2YYXdXww"},
	{Name: "Laura", ID: "FGY2WhTYpPnrIDTdsKH5"},
	{Name: "George", ID: "JBFqnCBsd6RMkjVDRZzb"},
}

// VoiceNames lists the preset names in display order.
func VoiceNames() []string {
	names := make([]string, 0, len(Presets))
	for _, v := range Presets {
		names = append(names, v.Name)
	}
	return names
}

// ResolveVoice maps a preset name, matched case-insensitively, to its voice ID.
func ResolveVoice(name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, v := range Presets {
		if strings.EqualFold(v.Name, name) {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("%w %q (choose %s)", ErrUnknownVoice, name, strings.Join(VoiceNames(), ", "))
}
