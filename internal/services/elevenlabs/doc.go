// Package elevenlabs renders narration audio through the ElevenLabs
// text-to-speech API.
//
// Scripts are reduced from markdown to plain sentences before synthesis and the
// resulting MP3 is streamed to a uniquely named file in the audio directory.
package elevenlabs
