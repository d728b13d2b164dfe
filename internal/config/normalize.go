package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScript()
	c.normalizeVoice()
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key   string
		value *string
		def   string
	}{
		{"paths.work_dir", &c.Paths.WorkDir, defaultWorkDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.def
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeScript() {
	c.Script.Provider = strings.ToLower(strings.TrimSpace(c.Script.Provider))
	if c.Script.Provider == "" {
		c.Script.Provider = defaultScriptProvider
	}
	c.Script.APIKey = strings.TrimSpace(c.Script.APIKey)
	c.Script.BaseURL = strings.TrimSpace(c.Script.BaseURL)
	c.Script.Model = strings.TrimSpace(c.Script.Model)
	c.Script.FallbackModel = strings.TrimSpace(c.Script.FallbackModel)

	switch c.Script.Provider {
	case "gemini":
		c.Script.APIKey = envFallback(c.Script.APIKey, "GEMINI_API_KEY")
		if c.Script.BaseURL == "" {
			c.Script.BaseURL = defaultGeminiBaseURL
		}
		if c.Script.Model == "" {
			c.Script.Model = defaultGeminiModel
		}
		if c.Script.FallbackModel == "" {
			c.Script.FallbackModel = defaultGeminiFallbackModel
		}
	case "openrouter":
		c.Script.APIKey = envFallback(c.Script.APIKey, "OPENROUTER_API_KEY")
		if c.Script.BaseURL == "" {
			c.Script.BaseURL = defaultOpenRouterBaseURL
		}
		if c.Script.Model == "" {
			c.Script.Model = defaultGeminiModel
		}
	case "openai":
		c.Script.APIKey = envFallback(c.Script.APIKey, "OPENAI_API_KEY")
		if c.Script.Model == "" {
			c.Script.Model = defaultOpenAIModel
		}
	}
	if strings.TrimSpace(c.Script.Referer) == "" {
		c.Script.Referer = defaultScriptReferer
	}
	if strings.TrimSpace(c.Script.Title) == "" {
		c.Script.Title = defaultScriptTitle
	}
	if c.Script.TimeoutSeconds == 0 {
		c.Script.TimeoutSeconds = defaultScriptTimeoutSeconds
	}
}

func (c *Config) normalizeVoice() {
	c.Voice.APIKey = envFallback(strings.TrimSpace(c.Voice.APIKey), "ELEVENLABS_API_KEY")
	c.Voice.BaseURL = strings.TrimRight(strings.TrimSpace(c.Voice.BaseURL), "/")
	if c.Voice.BaseURL == "" {
		c.Voice.BaseURL = defaultVoiceBaseURL
	}
	c.Voice.ModelID = strings.TrimSpace(c.Voice.ModelID)
	if c.Voice.ModelID == "" {
		c.Voice.ModelID = defaultVoiceModelID
	}
	c.Voice.OutputFormat = strings.TrimSpace(c.Voice.OutputFormat)
	if c.Voice.OutputFormat == "" {
		c.Voice.OutputFormat = defaultVoiceOutputFormat
	}
	c.Voice.DefaultVoice = strings.TrimSpace(c.Voice.DefaultVoice)
	if c.Voice.DefaultVoice == "" {
		c.Voice.DefaultVoice = defaultVoice
	}
	if c.Voice.TimeoutSeconds == 0 {
		c.Voice.TimeoutSeconds = defaultVoiceTimeoutSeconds
	}
}

func (c *Config) normalizeTranscription() error {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultTranscriptionBackend
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultTranscriptionModel
	}
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
	if t.Language == "" {
		t.Language = defaultTranscriptionLanguage
	}
	t.Format = strings.ToLower(strings.TrimSpace(t.Format))
	if t.Format == "" {
		t.Format = defaultTranscriptionFormat
	}
	t.Binary = strings.TrimSpace(t.Binary)
	if t.Binary == "" {
		t.Binary = defaultWhisperBinary
	}
	t.APIBaseURL = strings.TrimRight(strings.TrimSpace(t.APIBaseURL), "/")
	if t.APIBaseURL == "" {
		t.APIBaseURL = defaultWhisperAPIBaseURL
	}
	t.APIModel = strings.TrimSpace(t.APIModel)
	if t.APIModel == "" {
		t.APIModel = defaultWhisperAPIModel
	}
	t.APIKey = envFallback(strings.TrimSpace(t.APIKey), "WHISPER_API_KEY", "OPENAI_API_KEY")
	t.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(t.WhisperXVADMethod))
	if t.WhisperXVADMethod == "" {
		t.WhisperXVADMethod = defaultWhisperXVADMethod
	}
	t.WhisperXHuggingFace = envFallback(strings.TrimSpace(t.WhisperXHuggingFace), "HUGGING_FACE_HUB_TOKEN", "HF_TOKEN")
	return nil
}

func (c *Config) normalizeHistory() error {
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		return nil
	}
	expanded, err := expandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// envFallback returns value when set, otherwise the first non-empty
// environment variable among keys.
func envFallback(value string, keys ...string) string {
	if value != "" {
		return value
	}
	for _, key := range keys {
		if env, ok := os.LookupEnv(key); ok && strings.TrimSpace(env) != "" {
			return strings.TrimSpace(env)
		}
	}
	return ""
}
