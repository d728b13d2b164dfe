// Package whisperapi sends audio to a hosted OpenAI-compatible transcription
// endpoint and maps the verbose_json response onto transcription.Result.
package whisperapi
