package kafka

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("smtp", errors.New("x")), ErrorTypeTransient},
		{"wrapped permanent", fmt.Errorf("wrap: %w", NewPermanentError("bad", nil)), ErrorTypePermanent},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"i/o timeout", errors.New("read: i/o timeout"), ErrorTypeTransient},
		{"unknown", errors.New("mailbox does not exist"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("net", nil)

	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("bad", nil), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}
