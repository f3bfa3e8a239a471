// Package compiledb loads a compilation database (file -> compile command)
// and derives include-search roots and per-file argv from it. Grounded on
// original_source/compilations.rs, using yaml.v3 to decode both JSON and
// YAML compilation databases through one call (YAML is a superset of JSON),
// and google/shlex for the shell-style argv split the original gets from
// the Rust shlex crate.
package compiledb

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/wrenger/unclude/internal/filterx"
	"github.com/wrenger/unclude/internal/ucerr"
)

// Entry is one compilation database record.
type Entry struct {
	File    string `yaml:"file" json:"file"`
	Command string `yaml:"command" json:"command"`
}

// DB is an in-memory file -> compile-command mapping.
type DB struct {
	byFile map[string]string
	order  []string
}

// Parse loads path (a JSON or YAML array of {file, command} objects),
// keeping only entries whose file matches filter.
func Parse(path string, filter filterx.Filter) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ucerr.Wrap(ucerr.ErrIO, "read compilation database "+path, err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, ucerr.Wrap(ucerr.ErrConfig, "parse compilation database "+path, err)
	}

	db := &DB{byFile: map[string]string{}}
	for _, e := range entries {
		if filter != nil && !filter.Match(e.File) {
			continue
		}
		if _, seen := db.byFile[e.File]; !seen {
			db.order = append(db.order, e.File)
		}
		db.byFile[e.File] = e.Command
	}
	return db, nil
}

// Empty returns a database with no entries, for runs with no -c/--compilations.
func Empty() *DB {
	return &DB{byFile: map[string]string{}}
}

// Files returns the files present in the database, in load order.
func (db *DB) Files() []string { return db.order }

// Command returns the raw compile command for file, if present.
func (db *DB) Command(file string) (string, bool) {
	cmd, ok := db.byFile[file]
	return cmd, ok
}

var reIncludeRoot = regexp.MustCompile(`(?:^|\s)-I ?([^\s]+)`)

// CollectIncludePaths scans every command for -I arguments and returns the
// deduplicated list of include roots, in first-seen order.
func (db *DB) CollectIncludePaths() []string {
	seen := map[string]bool{}
	var out []string
	for _, file := range db.order {
		for _, m := range reIncludeRoot.FindAllStringSubmatch(db.byFile[file], -1) {
			root := m[1]
			if !seen[root] {
				seen[root] = true
				out = append(out, root)
			}
		}
	}
	return out
}

// Dependents returns the direct dependents of a file; ArgsFor's fallback
// recurses through them itself. Implemented by the caller's
// DependencyIndex; kept as a narrow interface here to avoid an import cycle.
type Dependents interface {
	Dependents(file string) []string
}

// ArgsFor returns the parsed argv to compile file: its own command if
// present (compiler token, trailing input file, and any "-o OUT" pair
// stripped), otherwise the argv of a dependent found via deps (direct
// dependents first, then recursively through their own dependents),
// exactly as original_source/compilations.rs::get_related_args falls back.
// Returns false if no reachable command exists.
func (db *DB) ArgsFor(file string, deps Dependents) ([]string, bool) {
	return db.argsFor(file, deps, map[string]bool{})
}

func (db *DB) argsFor(file string, deps Dependents, visited map[string]bool) ([]string, bool) {
	if visited[file] {
		return nil, false
	}
	visited[file] = true

	if cmd, ok := db.byFile[file]; ok {
		return parseArgs(cmd), true
	}
	if deps == nil {
		return nil, false
	}
	dependents := deps.Dependents(file)
	for _, dep := range dependents {
		if cmd, ok := db.byFile[dep]; ok {
			return parseArgs(cmd), true
		}
	}
	for _, dep := range dependents {
		if args, ok := db.argsFor(dep, deps, visited); ok {
			return args, true
		}
	}
	return nil, false
}

// parseArgs splits a compile command into argv, dropping the compiler
// invocation token, the trailing input-file argument, and any "-o OUT" pair.
func parseArgs(command string) []string {
	tokens, err := shlex.Split(command)
	if err != nil || len(tokens) == 0 {
		return nil
	}

	tokens = tokens[1:] // drop the compiler token

	var out []string
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t == "-o" {
			i++ // also drop the output path
			continue
		}
		if strings.HasPrefix(t, "-o") && len(t) > 2 {
			continue
		}
		out = append(out, t)
	}

	if n := len(out); n > 0 && !strings.HasPrefix(out[n-1], "-") {
		out = out[:n-1] // trailing input file
	}
	return out
}
