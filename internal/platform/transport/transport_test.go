package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransientClassification(t *testing.T) {
	t.Parallel()

	base := errors.New("connection reset by peer")
	marked := MarkTransient(base)

	assert.True(t, IsTransient(marked))
	assert.ErrorIs(t, marked, base)

	wrapped := fmt.Errorf("push failed: %w", marked)
	assert.True(t, IsTransient(wrapped))

	assert.False(t, IsTransient(base))
	assert.False(t, IsTransient(nil))
	assert.Nil(t, MarkTransient(nil))
}
