// Package main hosts the shortgen CLI entrypoint and command graph.
//
// The Cobra command tree covers the narration pipeline end to end: drafting
// a script, voicing it through ElevenLabs, and aligning subtitles against
// the resulting audio. Each stage is also exposed on its own so an existing
// recording can be transcribed without touching the other services.
//
// Commands resolve configuration once per invocation through commandContext
// and build their collaborators from it; the heavy lifting lives in the
// internal packages.
package main
