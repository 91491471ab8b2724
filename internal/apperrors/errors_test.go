package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")

	err := Persistence("enroll", cause)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "enroll")
}

func TestPersistenceKeepsDomainKinds(t *testing.T) {
	notFound := fmt.Errorf("client not found: %w", ErrNotFound)

	err := Persistence("enroll", notFound)

	assert.False(t, IsPersistence(err))
	assert.Same(t, notFound, err)
}

func TestPersistenceDoesNotDoubleWrap(t *testing.T) {
	first := Persistence("enroll", errors.New("boom"))

	second := Persistence("reassign", first)

	var pe *PersistenceError
	assert.True(t, errors.As(second, &pe))
	assert.Equal(t, "enroll", pe.Op)
}

func TestPersistenceNil(t *testing.T) {
	assert.NoError(t, Persistence("noop", nil))
}
