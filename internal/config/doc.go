// Package config loads, normalizes, and validates shortgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a local .env file, and honours
// environment fallbacks such as GEMINI_API_KEY and ELEVENLABS_API_KEY. The
// Config type centralizes every knob the pipeline and CLI need so working
// directories and external service credentials are discovered in one pass.
//
// Credentials are optional at load time. Commands that never call a remote
// service, such as transcribe with a local backend, work without any keys.
package config
