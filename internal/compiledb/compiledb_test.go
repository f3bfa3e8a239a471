package compiledb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenger/unclude/internal/filterx"
)

func writeDB(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compile_commands.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeDB(t, `[
		{"file": "a.cpp", "command": "g++ -Iinclude -c a.cpp -o a.o"},
		{"file": "b.cpp", "command": "g++ -Iinclude -Ivendor -c b.cpp -o b.o"}
	]`)

	db, err := Parse(path, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.cpp", "b.cpp"}, db.Files())
	cmd, ok := db.Command("a.cpp")
	assert.True(t, ok)
	assert.Contains(t, cmd, "a.cpp")
}

func TestParseYAML(t *testing.T) {
	path := writeDB(t, "- file: a.cpp\n  command: g++ -c a.cpp -o a.o\n")

	db, err := Parse(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cpp"}, db.Files())
}

func TestParseAppliesFilter(t *testing.T) {
	path := writeDB(t, `[{"file":"a.cpp","command":"cc a.cpp"},{"file":"a_test.cpp","command":"cc a_test.cpp"}]`)

	filter, err := filterx.NewRegex(`^a\.cpp$`)
	require.NoError(t, err)

	db, err := Parse(path, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.cpp"}, db.Files())
}

func TestCollectIncludePathsDeduplicates(t *testing.T) {
	path := writeDB(t, `[
		{"file":"a.cpp","command":"g++ -Iinclude -Ivendor -c a.cpp"},
		{"file":"b.cpp","command":"g++ -Iinclude -c b.cpp"}
	]`)
	db, err := Parse(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"include", "vendor"}, db.CollectIncludePaths())
}

func TestParseArgsDropsCompilerOutputAndInputFile(t *testing.T) {
	args := parseArgs("g++ -Iinclude -std=c++17 -c a.cpp -o a.o")
	assert.Equal(t, []string{"-Iinclude", "-std=c++17", "-c"}, args)
}

type fakeDeps map[string][]string

func (f fakeDeps) Dependents(file string) []string { return f[file] }

func TestArgsForFallsBackToDependent(t *testing.T) {
	path := writeDB(t, `[{"file":"lib.cpp","command":"g++ -DX -c lib.cpp -o lib.o"}]`)
	db, err := Parse(path, nil)
	require.NoError(t, err)

	deps := fakeDeps{"lib.h": {"lib.cpp"}}

	args, ok := db.ArgsFor("lib.h", deps)
	require.True(t, ok)
	assert.Contains(t, args, "-DX")
}

func TestArgsForGuardsAgainstCycles(t *testing.T) {
	db := Empty()
	deps := fakeDeps{"a.h": {"b.h"}, "b.h": {"a.h"}}

	_, ok := db.ArgsFor("a.h", deps)
	assert.False(t, ok)
}
