package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionIDError(t *testing.T) {
	err := &QuestionIDError{Input: "q1", Reason: "bad form"}

	assert.Equal(t, `question id "q1": bad form`, err.Error())
	assert.True(t, errors.Is(err, ErrInvalidQuestionID), "Should unwrap to ErrInvalidQuestionID")

	wrapped := fmt.Errorf("answer 3: %w", err)
	var target *QuestionIDError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "q1", target.Input)
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("snapshot")
		err.AddError("missing player")

		assert.Equal(t, "validation error for snapshot: missing player", err.Error())
		assert.True(t, err.HasErrors(), "Should have errors")
		assert.Len(t, err.Errors, 1, "Should have one error")
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("snapshot")
		err.AddError("missing player")
		err.AddErrorf("team %q is not on the roster", "blue")
		err.AddErrorf("round %d is outside 1..%d", 7, 3)

		assert.Contains(t, err.Error(), "validation errors for snapshot")
		assert.Contains(t, err.Error(), `team "blue" is not on the roster`)
		assert.True(t, err.HasErrors(), "Should have errors")
		assert.Len(t, err.Errors, 3, "Should have three errors")
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("Config")

		assert.False(t, err.HasErrors(), "Should not have errors")
		assert.Empty(t, err.Errors, "Errors slice should be empty")
	})
}

func TestCommonDomainErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrInvalidQuestionID, "invalid question id"},
		{ErrInvalidSnapshot, "invalid snapshot"},
		{ErrEmptyValue, "empty value"},
		{ErrInvalidConfiguration, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error(), "Error message mismatch")
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	verr := NewValidationError("snapshot")
	verr.AddError("missing player")
	err := fmt.Errorf("%w: %w", ErrInvalidSnapshot, verr)

	assert.True(t, errors.Is(err, ErrInvalidSnapshot), "Should match the sentinel")

	var target *ValidationError
	assert.True(t, errors.As(err, &target), "Should expose the validation details")
	assert.Equal(t, []string{"missing player"}, target.Errors)
}
