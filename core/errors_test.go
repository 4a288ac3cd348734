package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsorbable(t *testing.T) {
	assert.True(t, IsAbsorbable(fmt.Errorf("%w: short", ErrPrecondition)))
	assert.True(t, IsAbsorbable(fmt.Errorf("wrapped: %w", fmt.Errorf("%w: 4096 > 2048", ErrCapacityExceeded))))
	assert.False(t, IsAbsorbable(fmt.Errorf("%w: no template", ErrConfiguration)))
	assert.False(t, IsAbsorbable(errors.New("other")))
	assert.False(t, IsAbsorbable(nil))
}
