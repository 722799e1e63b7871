// Package auth verifies the bearer tokens presented to the API. Tokens are
// issued by an external identity provider and signed with a shared HS256
// secret; the subject claim carries the user id.
package auth
