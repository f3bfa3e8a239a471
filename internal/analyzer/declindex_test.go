package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A local variable inside a function body must never be indexed as a
// top-level declaration: if it were, a name collision with a genuine global
// declared elsewhere could attribute declIndex[name] to the wrong file and
// let markUsed mark the wrong include used. Local.cpp is processed first so
// a pre-fix implementation would seed the index from the local variable
// before it ever sees the real global in Global.h.
func TestBuildDeclIndexIgnoresLocalsInsideFunctionBodies(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "Global.h")
	local := filepath.Join(dir, "Local.cpp")

	write(t, global, "int shared_name;\n")
	write(t, local, "void f() {\n  int shared_name;\n  shared_name = 1;\n}\n")

	index := buildDeclIndex([]string{local, global})

	require.Contains(t, index, "shared_name")
	assert.Equal(t, global, index["shared_name"])
}

// A struct's member declarations are scoped to the struct, not top-level:
// a member sharing a name with a real global must not shadow it either.
func TestBuildDeclIndexIgnoresStructMembers(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "Global.h")
	withStruct := filepath.Join(dir, "WithStruct.h")

	write(t, global, "int count;\n")
	write(t, withStruct, "struct Box {\n  int count;\n};\n")

	index := buildDeclIndex([]string{withStruct, global})

	require.Contains(t, index, "count")
	assert.Equal(t, global, index["count"])
}
