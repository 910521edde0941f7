package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalid_WrapsValidation(t *testing.T) {
	err := Invalid("title", "is required")
	require.True(t, errors.Is(err, ErrValidation))
	require.Equal(t, "validation failed: title is required", err.Error())
	require.False(t, errors.Is(err, ErrParentCycle))
}
