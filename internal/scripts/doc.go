// Package scripts drafts short-form narration scripts from a topic using a
// chat-completion provider.
//
// Gemini and OpenRouter go through the shared llm client; OpenAI goes through
// the official SDK. Providers are built from config.LLMConfig and refuse to
// run without an API key.
package scripts
