package ucerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapMatchesKindViaErrorsIs(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrIO, "read foo.h", cause)

	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, "read foo.h: no such file", err.Error())
}

func TestWrapNilCauseStillCarriesKind(t *testing.T) {
	err := Wrap(ErrConfig, "bad filter pattern", nil)

	assert.True(t, errors.Is(err, ErrConfig))
	assert.Equal(t, "bad filter pattern", err.Error())
}

func TestWrapUnwrapsToCauseWhenPresent(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrParse, "parse A.cpp", cause)

	assert.Same(t, cause, errors.Unwrap(err))
}

func TestNewCarriesKindWithNoCause(t *testing.T) {
	err := New(ErrMissingInclude, "Unused.h not found on any root")

	assert.True(t, errors.Is(err, ErrMissingInclude))
	assert.Equal(t, "Unused.h not found on any root", err.Error())
}

func TestDistinctKindsDoNotMatchEachOther(t *testing.T) {
	err := New(ErrCyclicInclude, "A.h -> B.h -> A.h")

	assert.False(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrMissingInclude))
}
