package config

const (
	defaultWorkDir               = "~/.local/share/shortgen/work"
	defaultOutputDir             = "~/.local/share/shortgen/output"
	defaultAudioDir              = "~/.local/share/shortgen/audio"
	defaultLogDir                = "~/.local/share/shortgen/logs"
	defaultCacheDir              = "~/.cache/shortgen/transcripts"
	defaultScriptProvider        = "gemini"
	defaultGeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"
	defaultOpenRouterBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultGeminiModel           = "gemini-2.0-flash-exp"
	defaultGeminiFallbackModel   = "gemini-2.0-flash-thinking-exp-01-21"
	defaultOpenAIModel           = "gpt-4o-mini"
	defaultScriptReferer         = "https://github.com/shortgen/shortgen"
	defaultScriptTitle           = "shortgen"
	defaultScriptTimeoutSeconds  = 60
	defaultVoiceBaseURL          = "https://api.elevenlabs.io"
	defaultVoiceModelID          = "eleven_multilingual_v2"
	defaultVoiceOutputFormat     = "mp3_44100_128"
	defaultVoice                 = "George"
	defaultVoiceTimeoutSeconds   = 120
	defaultTranscriptionBackend  = "whisper"
	defaultTranscriptionModel    = "base"
	defaultTranscriptionLanguage = "fr"
	defaultTranscriptionFormat   = "subtitle"
	defaultWhisperBinary         = "whisper"
	defaultWhisperAPIBaseURL     = "https://api.openai.com/v1"
	defaultWhisperAPIModel       = "whisper-1"
	defaultWhisperXVADMethod     = "silero"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			AudioDir:  defaultAudioDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir,
		},
		Script: Script{
			Provider:       defaultScriptProvider,
			Referer:        defaultScriptReferer,
			Title:          defaultScriptTitle,
			TimeoutSeconds: defaultScriptTimeoutSeconds,
		},
		Voice: Voice{
			BaseURL:        defaultVoiceBaseURL,
			ModelID:        defaultVoiceModelID,
			OutputFormat:   defaultVoiceOutputFormat,
			DefaultVoice:   defaultVoice,
			TimeoutSeconds: defaultVoiceTimeoutSeconds,
		},
		Transcription: Transcription{
			Backend:           defaultTranscriptionBackend,
			Model:             defaultTranscriptionModel,
			Language:          defaultTranscriptionLanguage,
			Format:            defaultTranscriptionFormat,
			Binary:            defaultWhisperBinary,
			CacheEnabled:      true,
			APIBaseURL:        defaultWhisperAPIBaseURL,
			APIModel:          defaultWhisperAPIModel,
			WhisperXVADMethod: defaultWhisperXVADMethod,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
