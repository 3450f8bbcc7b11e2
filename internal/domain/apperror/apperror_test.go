package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"conflict", Conflict("ACTIVE_SESSION_ALREADY_EXISTS", "x"), KindConflict},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("NO_ACTIVE_SESSION", "x")), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"validation", Validation("invalid", FieldError{Field: "amount", Message: "required"}), KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("post: %w", BadRequest("SESSION_NOT_ACTIVE", "session is not active"))

	assert.True(t, HasCode(err, "SESSION_NOT_ACTIVE"))
	assert.False(t, HasCode(err, "NO_ACTIVE_SESSION"))
	assert.False(t, HasCode(errors.New("x"), "SESSION_NOT_ACTIVE"))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, err.Code)
	assert.Contains(t, err.Error(), "connection reset")
}
