// Package llm provides a chat client for OpenAI-compatible completion
// endpoints such as OpenRouter and Gemini's compatibility layer.
//
// Complete returns free text and drives narration script generation.
// CompleteJSON requests a JSON object and backs HealthCheck, which the doctor
// command uses to verify the key and model.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and empty
// completions with exponential backoff (base 1s, max 10s, up to 5 attempts).
// Context cancellation aborts retries immediately.
package llm
