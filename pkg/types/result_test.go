package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultOf(t *testing.T) {
	t.Run("complete decomposition succeeds", func(t *testing.T) {
		res := ResultOf(Decomposition{}, nil)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.True(t, res.Successful())
		assert.False(t, res.Incomplete())
		assert.NoError(t, res.Err)
	})

	t.Run("incomplete decomposition is partial", func(t *testing.T) {
		res := ResultOf(Decomposition{Incomplete: true, Reason: "times dropped"}, nil)
		assert.Equal(t, StatusPartial, res.Status)
		assert.True(t, res.Successful())
		assert.True(t, res.Incomplete())
		assert.Equal(t, "times dropped", res.Reason)
	})

	t.Run("error is failure", func(t *testing.T) {
		err := fmt.Errorf("%w: Configs has no configurations", ErrEmpty)
		res := ResultOf(Decomposition{Incomplete: true}, err)
		assert.Equal(t, StatusFailure, res.Status)
		assert.False(t, res.Successful())
		assert.ErrorIs(t, res.Err, ErrEmpty)
		assert.Equal(t, err.Error(), res.Reason)
		assert.Empty(t, res.Resources)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "partial", StatusPartial.String())
	assert.Equal(t, "failure", StatusFailure.String())
}

func TestPackError(t *testing.T) {
	err := &PackError{Target: "LinearPath", Expected: "Vector followed by 2 Config", Given: []string{"Config", "Config"}}
	assert.Equal(t, "pack LinearPath: expected Vector followed by 2 Config, given Config, Config", err.Error())
	assert.True(t, errors.Is(err, ErrPackMismatch))

	empty := NewPackError("Stance", "one or more Hold", nil)
	assert.Contains(t, empty.Error(), "given nothing")
}
