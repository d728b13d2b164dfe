// Package language normalizes the language hints given to the speech-to-text
// oracle and the language names it reports back.
//
// Inputs may be ISO 639-1 or 639-2 codes, BCP 47 tags, English words, or the
// "auto" sentinel that requests detection.
package language
