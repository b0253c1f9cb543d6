package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errTooSoon := Validation("TOO_SOON", "start date must be in the future")
	errDenied := Authorization("NOT_AUTHORIZED", "not authorized")
	errMissing := NotFound("NOT_FOUND", "missing")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", errTooSoon, KindValidation},
		{"authorization", errDenied, KindAuthorization},
		{"not found", errMissing, KindNotFound},
		{"wrapped", fmt.Errorf("submit: %w", errTooSoon), KindValidation},
		{"plain error", errors.New("boom"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	errA := Validation("SAME", "same message")
	errB := Validation("SAME", "same message")

	wrapped := fmt.Errorf("op: %w", errA)
	assert.True(t, errors.Is(wrapped, errA))
	assert.False(t, errors.Is(wrapped, errB))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "SAME", appErr.Code)
	assert.Equal(t, "op: same message", wrapped.Error())
}
