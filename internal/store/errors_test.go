package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNotFoundErrors(t *testing.T) {
	for _, err := range []error{ErrFlashcardNotFound, ErrGenerationNotFound, ErrGenerationErrorLogNotFound} {
		t.Run(err.Error(), func(t *testing.T) {
			assert.True(t, IsNotFoundError(err))
			assert.True(t, IsNotFoundError(fmt.Errorf("get: %w", err)))
			assert.False(t, IsDuplicateError(err))
		})
	}
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("unique_violation")
	err := NewStoreError("flashcard", "create", "insert failed", fmt.Errorf("%w: %v", ErrDuplicate, cause))

	assert.Equal(t, "create operation on flashcard failed: insert failed: entity already exists: unique_violation", err.Error())
	assert.True(t, IsDuplicateError(err))

	bare := NewStoreError("generation", "list", "scan failed", nil)
	assert.Equal(t, "list operation on generation failed: scan failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
