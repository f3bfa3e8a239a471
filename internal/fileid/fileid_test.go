package fileid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfCanonicalizesSamePathTwoWays(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.h")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	viaClean, err := Of(file)
	require.NoError(t, err)

	viaDotDot, err := Of(filepath.Join(dir, "sub", "..", "a.h"))
	require.NoError(t, err)

	assert.Equal(t, viaClean, viaDotDot)
	assert.False(t, viaClean.IsZero())
}

func TestOfFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.h")
	require.NoError(t, os.WriteFile(real, []byte(""), 0o644))

	link := filepath.Join(dir, "link.h")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	realID, err := Of(real)
	require.NoError(t, err)
	linkID, err := Of(link)
	require.NoError(t, err)

	assert.Equal(t, realID, linkID)
}

func TestZeroValueIsZero(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())
}
