package depindex

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenger/unclude/internal/compiledb"
)

// treeGoldie mirrors the teacher's gitGoldie: a goldie instance with a
// text-file suffix, for comparing the printed dependency tree.
func treeGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

// normalizeTempDir replaces dir's canonicalized form with a stable
// placeholder so golden output doesn't embed a fresh t.TempDir() path.
func normalizeTempDir(dir, s string) string {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	return strings.ReplaceAll(s, resolved, "$ROOT")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildIndexesSourcesAndHeaders(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cpp")
	h := filepath.Join(dir, "lib.h")
	// The leading "a.h" is a.cpp's own header: sourcescan skips a source's
	// first include, so lib.h has to come second to be indexed.
	writeFile(t, a, "#include \"a.h\"\n#include \"lib.h\"\nint x;\n")
	writeFile(t, h, "int f();\n")

	dbPath := filepath.Join(dir, "compile_commands.json")
	writeFile(t, dbPath, `[{"file":"`+a+`","command":"cc -c `+a+`"}]`)

	db, err := compiledb.Parse(dbPath, nil)
	require.NoError(t, err)

	idx, err := Build(db, nil, nil)
	require.NoError(t, err)

	deps := idx.Dependents(h)
	require.Len(t, deps, 1)
	assert.Equal(t, canon(a), deps[0])
}

func TestPrintAnnotatesCycles(t *testing.T) {
	idx := New()
	idx.link(canon("/a.h"), canon("/b.h"))
	idx.link(canon("/b.h"), canon("/a.h"))

	var buf bytes.Buffer
	Print(&buf, idx, "/a.h")

	out := buf.String()
	assert.Contains(t, out, "(circular)")
}

func TestPrintTreeGolden(t *testing.T) {
	idx := New()
	idx.link(canon("/project/Base.h"), canon("/project/Derived.h"))
	idx.link(canon("/project/Derived.h"), canon("/project/A.cpp"))
	idx.link(canon("/project/Derived.h"), canon("/project/B.cpp"))
	idx.link(canon("/project/Base.h"), canon("/project/C.cpp"))

	var buf bytes.Buffer
	Print(&buf, idx, "/project/Base.h")

	treeGoldie(t).Assert(t, t.Name(), []byte(normalizeTempDir("/project", buf.String())))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := New()
	idx.link(canon("/a.h"), canon("/b.cpp"))

	path := filepath.Join(dir, "dependencies.json")
	require.NoError(t, Save(idx, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{canon("/b.cpp")}, loaded.Dependents("/a.h"))
}
