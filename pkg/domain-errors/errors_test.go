package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "load state")

	assert.Equal(t, "load state: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, GetCode(err))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
	assert.Equal(t, CodeNotFound, GetCode(fmt.Errorf("ctx: %w", New(CodeNotFound, "missing"))))
	assert.True(t, HasCode(New(CodeConflict, "x"), CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}

func TestReasonOf(t *testing.T) {
	inner := NewReason(CodeForbidden, "NotOwner", "caller is not the owner")

	assert.Equal(t, "NotOwner", ReasonOf(inner))
	assert.Equal(t, "NotOwner", ReasonOf(Wrap(inner, CodeInternal, "admin")))
	assert.Equal(t, "NotOwner", ReasonOf(fmt.Errorf("rpc: %w", inner)))
	assert.Empty(t, ReasonOf(Wrap(errors.New("plain"), CodeInternal, "x")))
	assert.Empty(t, ReasonOf(nil))
}
