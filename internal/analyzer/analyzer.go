// Package analyzer drives the C/C++ frontend: it populates an IncludeGraph
// with file->file edges (Pass A) and marks which included files contribute
// a used declaration (Pass B), then asks the graph which direct includes of
// the main file are unused. Grounded on original_source/analyze.rs for the
// two-pass structure and the ignore predicates, adapted to tree-sitter per
// the redesign documented in SPEC_FULL.md 3.
package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/wrenger/unclude/internal/fileid"
	"github.com/wrenger/unclude/internal/includegraph"
	"github.com/wrenger/unclude/internal/pathresolve"
)

// Options configures one run of Analyze.
type Options struct {
	MainFile       string
	Roots          []string       // -I search roots, from CompilationsDB.CollectIncludePaths
	IgnoreIncludes *regexp.Regexp // includes whose resolved path matches are left in place
	Verbose        bool
	Log            func(string) // receives diagnostic lines when Verbose; may be nil
}

// IncludeRecord names one top-level include of the main file found unused.
type IncludeRecord struct {
	Name string // spelling as written
	Path string // resolved absolute path
	Line int     // 1-based line in the main file
}

// Result is the outcome of analyzing one translation unit.
type Result struct {
	Unused []IncludeRecord
}

// Analyze builds the include graph for opts.MainFile, walks its references,
// and returns the direct includes of the main file that justify no used
// declaration.
func Analyze(opts Options) (*Result, error) {
	main := opts.MainFile
	g := includegraph.New()

	visited := map[string]bool{}
	if err := buildEdges(g, main, main, opts, visited); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(visited))
	for f := range visited {
		files = append(files, f)
	}
	declIndex := buildDeclIndex(files)

	tree, source, err := parseTree(main)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	mainID := fileid.MustOf(main)
	markUsed(tree.RootNode(), source, main, declIndex, g, map[string]bool{})

	unused := g.Unused(mainID)
	unusedSet := map[fileid.ID]bool{}
	for _, id := range unused {
		unusedSet[id] = true
	}

	directives := extractDirectives(tree.RootNode(), source)
	var out []IncludeRecord
	for _, d := range directives {
		if d.Global {
			continue
		}
		target, ok := pathresolve.FindInclude(main, d.Path, opts.Roots)
		if !ok {
			continue
		}
		tid := fileid.MustOf(target)
		if unusedSet[tid] {
			out = append(out, IncludeRecord{Name: d.Path, Path: target, Line: d.Line})
		}
	}

	return &Result{Unused: out}, nil
}

// buildEdges walks file's includes, recording an edge for each resolvable
// local include and recursing into the included file, unless it was already
// visited (guards both header-guard cycles and the TU's transitive closure
// from blowing up). Ignore predicates (spec.md 4.7) apply only to directives
// in the main file.
func buildEdges(g *includegraph.Graph, file, main string, opts Options, visited map[string]bool) error {
	if visited[file] {
		return nil
	}
	visited[file] = true

	tree, source, err := parseTree(file)
	if err != nil {
		if file == main {
			return err
		}
		return nil // a dependency that fails to parse just contributes no edges
	}
	defer tree.Close()

	fromID := fileid.MustOf(file)
	for _, d := range extractDirectives(tree.RootNode(), source) {
		if d.Global {
			continue
		}
		target, ok := pathresolve.FindInclude(file, d.Path, opts.Roots)
		if !ok {
			if opts.Verbose && opts.Log != nil {
				opts.Log(fmt.Sprintf("%s: unresolved include %q", file, d.Path))
			}
			continue
		}

		if file == main && ignored(file, d, target, main, opts) {
			if opts.Verbose && opts.Log != nil {
				opts.Log(fmt.Sprintf("%s: ignore %s", file, d.Path))
			}
			continue
		}

		g.Insert(fromID, fileid.MustOf(target))
		if err := buildEdges(g, target, main, opts, visited); err != nil {
			return err
		}
	}
	return nil
}

// ignored implements the three "leave this include alone" predicates:
// a trailing "// keep" marker, a caller-supplied ignore regex match on the
// resolved path, and the self-include-by-stem convention (a source's
// corresponding header, kept implicitly).
func ignored(file string, d directive, resolved, main string, opts Options) bool {
	if d.Keep {
		return true
	}
	if opts.IgnoreIncludes != nil && opts.IgnoreIncludes.MatchString(resolved) {
		return true
	}
	return stem(d.Path) == stem(main)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// markUsed recursively walks reference-like nodes (identifiers naming a
// declaration) in the main file. Each name is looked up in declIndex; a hit
// outside the file being walked marks that file used in g and is itself
// recursed into, mirroring spec.md 4.7's "follow the resolved entity".
// Self-references (a name declared in the very file being walked) are
// skipped to avoid infinite recursion.
func markUsed(n *sitter.Node, source []byte, file string, declIndex map[string]string, g *includegraph.Graph, visiting map[string]bool) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "identifier", "type_identifier", "field_identifier":
		name := n.Content(source)
		declFile, ok := declIndex[name]
		if ok && declFile != file && !visiting[name] {
			g.MarkUsed(fileid.MustOf(declFile))
			visiting[name] = true
			// Follow the references in the declaring file (e.g. a
			// typedef's underlying type) transitively, bounded by visiting.
			if tree, src, err := parseTree(declFile); err == nil {
				markUsed(tree.RootNode(), src, declFile, declIndex, g, visiting)
				tree.Close()
			}
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		markUsed(n.Child(i), source, file, declIndex, g, visiting)
	}
}
