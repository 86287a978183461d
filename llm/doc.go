// Package llm is a provider-agnostic chat completion client.
//
// The universal types (CompletionRequest, CompletionResponse, Usage)
// are mapped to a concrete provider's HTTP format by a Dialect. Two
// dialects ship in-package and self-register: "ollama" for Ollama's
// native chat API and "openai" for the OpenAI-compatible surface most
// providers expose. The Client itself is plain net/http with retry and
// bearer-token auth from config.
package llm
