package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	err := NotFound("user %d not found", 7)
	assert.EqualError(t, err, "user 7 not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("create reservation: %w", Conflict("book %d is not available", 3))
	assert.ErrorIs(t, wrapped, ErrConflict)

	assert.ErrorIs(t, Validation("bad"), ErrValidation)
}
