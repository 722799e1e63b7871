// Package api exposes generations and flashcards over HTTP. Handlers decode
// and validate requests, call the services and map their errors to status
// codes and safe messages.
package api
