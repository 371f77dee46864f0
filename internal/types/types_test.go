package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := NewError(CodeRange, "value", 12, "max", 10)
	assert.ErrorIs(t, err, ErrRange)
	assert.NotErrorIs(t, err, ErrUnknownType)

	var coded Error
	assert.True(t, errors.As(err, &coded))
	assert.Equal(t, 12, coded.Context["value"])
}

func TestMemo(t *testing.T) {
	var memo Memo
	_, ok := memo.Get()
	assert.False(t, ok)

	t.Run("set to nil is distinct from unset", func(t *testing.T) {
		var memo Memo
		memo.Set(nil)
		value, ok := memo.Get()
		assert.True(t, ok)
		assert.Nil(t, value)
	})

	t.Run("writes after the first are ignored", func(t *testing.T) {
		var memo Memo
		memo.Set(1)
		memo.Set(2)
		value, _ := memo.Get()
		assert.Equal(t, 1, value)
	})
}

func TestUninitializedSentinel(t *testing.T) {
	assert.NotNil(t, UninitializedValue)
	assert.NotEqual(t, UninitializedValue, 0)
	assert.NotEqual(t, UninitializedValue, "")
}
