// Package transcription defines the speech-to-text contract shared by every
// backend: a Transcriber turns an audio file into text and timed segments.
//
// Backends live under internal/services and are selected by name through a
// Registry. Cache wraps any backend with a content-addressed result store so
// repeated runs over the same narration skip the model entirely.
package transcription
