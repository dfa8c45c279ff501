package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageError(t *testing.T) {
	cause := errors.New("expected 2 arguments, got 1")
	err := &UsageError{Err: cause}

	assert.Equal(t, "expected 2 arguments, got 1", err.Error())
	assert.ErrorIs(t, err, cause)
}
