// Package pipeline runs the generate flow: draft a script, synthesize the
// narration, then align subtitles to the audio.
//
// Step failures never abort the process. They are recorded as status messages
// on the Report, later steps that depend on a missing artifact are skipped, and
// the finished run is written to the history store when one is configured.
package pipeline
