package clangfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeRangesFindsContiguousPreprocessorBlocks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.cpp")
	content := "#include \"a.h\"\n#include \"b.h\"\n\nint x;\nint y;\n\n#include \"c.h\"\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	ranges, err := includeRanges(file)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 3}, {6, 7}}, ranges)
}

func TestIncludeRangesNoPreprocessorLines(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(file, []byte("int x;\n"), 0o644))

	ranges, err := includeRanges(file)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestFormatSkipsInvocationWhenNoRanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.cpp")
	require.NoError(t, os.WriteFile(file, []byte("int x;\n"), 0o644))

	// Format returns early when there is nothing to format. A Run() of the
	// nonexistent executable would only print a diagnostic and Format would
	// still return nil, so this checks the result, not that Run() was skipped.
	err := Format("/nonexistent/formatter-binary", file)
	require.NoError(t, err)
}
