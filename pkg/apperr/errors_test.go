package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified not found", New(KindNotFound, "project not found"), KindNotFound},
		{"classified conflict", New(KindConflict, "duplicate member"), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped classified", fmt.Errorf("handler: %w", New(KindForbidden, "nope")), KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	// The caller-facing message must not leak the cause-free part only via kind.
	assert.Equal(t, "server error", err.Message)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(KindNotFound, "gone")))
	assert.True(t, IsForbidden(New(KindForbidden, "no")))
	assert.True(t, IsConflict(New(KindConflict, "dup")))
	assert.False(t, IsNotFound(New(KindConflict, "dup")))
	assert.False(t, IsNotFound(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "invalid_operation", KindInvalidOperation.String())
	assert.Equal(t, "internal", KindInternal.String())
}
