// Package whisper runs the openai-whisper command line tool as a local
// speech-to-text backend.
package whisper
