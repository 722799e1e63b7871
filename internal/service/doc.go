// Package service contains the flashcard use cases: accepting generated or
// manual flashcards in bulk, and reading, editing and deleting a user's
// cards. It coordinates the stores defined in internal/store and applies
// transactional boundaries when an operation spans more than one of them.
//
// Token verification lives in the auth subpackage.
package service
