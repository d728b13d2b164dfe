package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shortgen/internal/services/elevenlabs"
)

func TestScriptCommandPrintsMarkdown(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"script", "--style", "Humoristique", "les", "volcans"}, env.configPath)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !strings.HasPrefix(out, "# Script généré\n\nVoici un script sur le sujet.") {
		t.Fatalf("unexpected script output %q", out)
	}
	if got := env.services.chatCount(); got != 1 {
		t.Fatalf("expected one completion request, got %d", got)
	}
}

func TestScriptCommandRejectsUnknownProvider(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"script", "--provider", "bogus", "topic"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	requireContains(t, err.Error(), "not supported")
}

func TestVoiceCommandReadsStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"voice", "-", "--voice", "River"}, env.configPath, "# Titre\n\n**Bonjour** à tous")
	if err != nil {
		t.Fatalf("voice: %v", err)
	}
	requireContains(t, out, elevenlabs.StatusSuccess)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	path := lines[len(lines)-1]
	if filepath.Dir(path) != env.cfg.Paths.AudioDir || filepath.Ext(path) != ".mp3" {
		t.Fatalf("unexpected audio path %q", path)
	}
}

func TestVoiceCommandRejectsUnknownVoice(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLIWithInput(t, []string{"voice", "-", "--voice", "Nobody"}, env.configPath, "Bonjour")
	if err == nil {
		t.Fatal("expected error for unknown voice")
	}
	if len(env.services.sentVoices()) != 0 {
		t.Fatal("expected no request for unknown voice")
	}
}

func TestVoicesCommandListsPresets(t *testing.T) {
	out, _, err := runCLI(t, []string{"voices"}, "")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	for _, preset := range elevenlabs.Presets {
		requireContains(t, out, preset.Name)
		requireContains(t, out, preset.ID)
	}
}

func TestScriptCommandSavesMarkdown(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"script", "--save", "Les", "volcans", "d'Islande"}, env.configPath)
	if err != nil {
		t.Fatalf("script --save: %v", err)
	}
	target := filepath.Join(env.cfg.Paths.OutputDir, "les-volcans-d-islande.md")
	requireContains(t, out, "Saved to "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read saved script: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Script généré") {
		t.Fatalf("unexpected saved script %q", data)
	}
}
