// Package pathresolve locates a header on disk given an include spelling
// and chooses the best spelling to write into a dependent. Grounded on the
// teacher's depgraph/languages/{c,cpp} ResolveXIncludePath, generalized to
// the root-list and "src/main convention" policy spec.md describes.
package pathresolve

import (
	"os"
	"path/filepath"
	"strings"
)

// Statement is an include directive emitted for a dependent file.
type Statement struct {
	Path   string // payload: a relative path, or a bare name for Global
	Global bool   // true for #include <...>, false for #include "..."
}

// String renders the statement the way it is written to a file.
func (s Statement) String() string {
	if s.Global {
		return "#include <" + s.Path + ">"
	}
	return `#include "` + s.Path + `"`
}

var srcLikeDirs = map[string]bool{"src": true, "include": true}

// FindInclude tries, in order: (a) parent(file)/spelling, (b) each root in
// order, root/spelling, (c) the "src/main" convention: walk file's path
// components, skip up to the first "src" or "include" segment, skip a
// following "main", and probe root/prefix/spelling for each root using the
// remaining prefix. Returns the first path that exists on disk.
func FindInclude(file, spelling string, roots []string) (string, bool) {
	if cand := filepath.Join(filepath.Dir(file), spelling); exists(cand) {
		return filepath.Clean(cand), true
	}

	for _, root := range roots {
		if cand := filepath.Join(root, spelling); exists(cand) {
			return filepath.Clean(cand), true
		}
	}

	prefix, ok := srcMainPrefix(file)
	if ok {
		for _, root := range roots {
			cand := filepath.Join(root, prefix, spelling)
			if exists(cand) {
				return filepath.Clean(cand), true
			}
		}
	}

	return "", false
}

// srcMainPrefix returns the directory prefix of file starting just after the
// first "src" or "include" path segment (skipping a following "main"), for
// use with FindInclude's convention-based probe.
func srcMainPrefix(file string) (string, bool) {
	dir := filepath.ToSlash(filepath.Dir(file))
	parts := strings.Split(dir, "/")
	for i, p := range parts {
		if srcLikeDirs[p] {
			rest := parts[i+1:]
			if len(rest) > 0 && rest[0] == "main" {
				rest = rest[1:]
			}
			return filepath.Join(rest...), true
		}
	}
	return "", false
}

// ChooseSpelling decides how target should be written as an include inside
// includingFile, in the order spec.md 4.2 specifies: the nearest ancestor of
// includingFile ending in src, include, src/main, or include/main, then
// each root in order, stripping that ancestor/root prefix from target's
// directory. If nothing matches, it falls back to a bare basename as a
// Global (<...>) include.
func ChooseSpelling(target, includingFile string, roots []string) Statement {
	target = filepath.Clean(target)

	for _, anc := range ancestorsWithConvention(includingFile) {
		if rel, ok := relativeFrom(target, anc); ok {
			return Statement{Path: filepath.ToSlash(rel)}
		}
	}

	for _, root := range roots {
		if rel, ok := relativeFrom(target, root); ok {
			return Statement{Path: filepath.ToSlash(rel)}
		}
	}

	return Statement{Path: filepath.Base(target), Global: true}
}

func relativeFrom(target, base string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

// ancestorsWithConvention returns the ancestor directories of file ending in
// src, include, src/main, or include/main — nearest ancestor first.
func ancestorsWithConvention(file string) []string {
	dir := filepath.ToSlash(filepath.Dir(file))
	parts := strings.Split(dir, "/")
	var out []string
	for i := len(parts) - 1; i >= 0; i-- {
		if srcLikeDirs[parts[i]] {
			out = append(out, filepath.FromSlash(strings.Join(parts[:i+1], "/")))
		}
		if i > 0 && parts[i] == "main" && srcLikeDirs[parts[i-1]] {
			out = append(out, filepath.FromSlash(strings.Join(parts[:i+1], "/")))
		}
	}
	return out
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
