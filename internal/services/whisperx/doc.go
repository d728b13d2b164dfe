// Package whisperx runs WhisperX through uvx as a speech-to-text backend.
//
// WhisperX adds voice activity detection and sentence-level segmentation on
// top of Whisper, which gives tighter subtitle timing on narration. Model,
// CUDA, and VAD settings come from Config; the launcher needs only uvx on
// PATH.
package whisperx
