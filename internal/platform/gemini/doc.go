// Package gemini provides an openrouter.Transport backed by Google's Gemini
// API, so the flashcard client can run against Gemini models with the same
// retry, normalization and schema validation pipeline.
//
// Key pieces:
//
// 1. Request translation:
//   - The system and user messages become the system instruction and the
//     user content of a GenerateContent call
//   - temperature, top_p and max_tokens map onto the generation config
//   - JSON response formats request an application/json MIME type
//
// 2. Response translation:
//   - Candidate text is returned as a {"content": text} body, which the
//     normalizer parses like any other content envelope
//   - Responses without candidates or with blocked content produce bodies
//     the normalizer rejects as missing choices or missing content
//   - Gemini API errors become non-2xx responses carrying the API status
package gemini
