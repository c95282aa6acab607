package apperr

import (
	"context"
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
		{"validation", Validation("title is required"), KindValidation},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("bill %s not found", "x")), KindNotFound},
		{"permission", Permission("guests cannot write"), KindPermission},
		{"timeout", Timeout("ledger fetch", context.DeadlineExceeded), KindTimeout},
		{"bare deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.True(t, IsKind(tt.err, tt.want))
		})
	}
}

func TestTimeoutKeepsCause(t *testing.T) {
	err := Timeout("ledger fetch", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "retry")
}

func TestIsKindNil(t *testing.T) {
	assert.False(t, IsKind(nil, KindInternal))
}
