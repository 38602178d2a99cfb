package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("book ticket: %w", AlreadyExists("seat %s already taken", "1A"))

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsExpected(err))
	assert.Equal(t, "seat 1A already taken", Message(err))
}

func TestUnexpectedError(t *testing.T) {
	err := errors.New("connection reset")

	assert.False(t, IsExpected(err))
	assert.Equal(t, "connection reset", Message(err))
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{NotFound("flight %s", "SU100"), ErrNotFound},
		{AlreadyExists("x"), ErrAlreadyExists},
		{NotPermitted("x"), ErrNotPermitted},
		{Validation("x"), ErrValidation},
	}
	for _, c := range cases {
		assert.ErrorIs(t, c.err, c.kind)
	}
}

func TestDenied(t *testing.T) {
	err := fmt.Errorf("check in: %w", Denied("not your ticket"))

	assert.ErrorIs(t, err, ErrNotPermitted)
	assert.True(t, IsDenied(err))
	assert.False(t, IsDenied(NotPermitted("flight departed")))
}
