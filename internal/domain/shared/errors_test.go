package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("student", "Find", ErrNotFound, "student not found")
	assert.Equal(t, "student.Find: student not found", err.Error())

	wrapped := WrapError("student", "Add", ErrPersistence, "failed to persist", errors.New("disk full"))
	assert.Equal(t, "student.Add: failed to persist: disk full", wrapped.Error())
}

func TestDomainError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError("student", "Delete", ErrPersistence, "failed to persist", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))

	// Wrapping again with fmt keeps the chain intact.
	outer := fmt.Errorf("undo: %w", err)
	assert.True(t, IsPersistence(outer))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(ErrStudentNotFound))
	assert.True(t, IsNotFound(ErrCourseNotFound))
	assert.True(t, IsAlreadyExists(ErrStudentAlreadyExists))
	assert.True(t, IsValidation(fmt.Errorf("gpa: %w", ErrValueOutOfRange)))
	assert.True(t, IsCyclicDependency(NewDomainError("course", "RecommendPath", ErrCyclicDependency, "cycle")))
	assert.False(t, IsValidation(ErrStudentNotFound))
}
