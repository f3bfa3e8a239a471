package filterx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexMatch(t *testing.T) {
	f, err := NewRegex(`\.cpp$`)
	require.NoError(t, err)

	assert.True(t, f.Match("a/b/main.cpp"))
	assert.False(t, f.Match("a/b/main.h"))
}

func TestGlobMatch(t *testing.T) {
	f, err := NewGlob("**/*.cpp")
	require.NoError(t, err)

	assert.True(t, f.Match("a/b/main.cpp"))
	assert.False(t, f.Match("a/b/main.h"))
}

func TestNewDefaultsToRegex(t *testing.T) {
	f, err := New(".")
	require.NoError(t, err)
	assert.True(t, f.Match("anything"))
}

func TestNewFallsBackToGlob(t *testing.T) {
	f, err := New("**/*.cpp")
	require.NoError(t, err)
	assert.True(t, f.Match("a/b/main.cpp"))
}
