// Package subtitles turns narration audio into transcripts and timed subtitle
// documents.
//
// The Aligner asks a transcription.Transcriber for text and segments, maps each
// segment to a numbered cue, and renders the cues as an SRT document. Failures
// never escape as panics or bare errors; they come back as an Outcome carrying
// a diagnostic so the pipeline and CLI can report them and carry on.
package subtitles
