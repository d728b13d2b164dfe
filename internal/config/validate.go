package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	validScriptProviders = []string{"gemini", "openrouter", "openai"}
	validBackends        = []string{"whisper", "whisperx", "api"}
	validFormats         = []string{"plain", "txt", "text", "subtitle", "srt"}
	validVADMethods      = []string{"silero", "pyannote"}
	validLogFormats      = []string{"console", "json"}
	validLogLevels       = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate ensures the configuration is usable. Credentials are not checked
// here; each client reports a missing key when it is first used.
func (c *Config) Validate() error {
	if err := c.validateScript(); err != nil {
		return err
	}
	if err := c.validateVoice(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScript() error {
	if !slices.Contains(validScriptProviders, c.Script.Provider) {
		return fmt.Errorf("script.provider %q is not supported (expected one of %v)", c.Script.Provider, validScriptProviders)
	}
	if c.Script.TimeoutSeconds < 0 {
		return errors.New("script.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateVoice() error {
	if c.Voice.TimeoutSeconds < 0 {
		return errors.New("voice.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !slices.Contains(validBackends, c.Transcription.Backend) {
		return fmt.Errorf("transcription.backend %q is not supported (expected one of %v)", c.Transcription.Backend, validBackends)
	}
	if !slices.Contains(validFormats, c.Transcription.Format) {
		return fmt.Errorf("transcription.format %q is not supported (expected plain or subtitle)", c.Transcription.Format)
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return errors.New("transcription.timeout_seconds must not be negative")
	}
	if !slices.Contains(validVADMethods, c.Transcription.WhisperXVADMethod) {
		return fmt.Errorf("transcription.whisperx_vad_method %q is not supported (expected silero or pyannote)", c.Transcription.WhisperXVADMethod)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not supported (expected console or json)", c.Logging.Format)
	}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
