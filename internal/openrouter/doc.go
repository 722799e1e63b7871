// Package openrouter turns free-form source text into flashcards through an
// OpenAI-compatible chat completions API (OpenRouter by default).
//
// A request is built from the client's GenerationConfig, sent through a
// Transport with linear backoff on 5xx and network failures, and the response
// is normalized from whichever envelope the provider used (a direct object,
// a JSON string under "content", or choices[0].message.content). When the
// configured JSON schema is strict the payload is validated against it before
// the flashcards are extracted.
//
// Every failure is a *ServiceError whose Code identifies the failure kind.
package openrouter
