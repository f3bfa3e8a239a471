// Package propagate implements PropagationEngine: analyze a file, remove its
// unused includes, then push those same includes into every dependent
// before recursing into it, guarding against cycles with a visited set.
// Grounded on spec.md 4.8; original_source/main.rs never implemented this
// step at all (its propagation path is a literal "// TODO: Find deps and
// propergate" stub), so this package has no original_source counterpart to
// translate and follows spec.md directly.
package propagate

import (
	"fmt"
	"io"
	"regexp"

	"github.com/wrenger/unclude/internal/analyzer"
	"github.com/wrenger/unclude/internal/clangfmt"
	"github.com/wrenger/unclude/internal/compiledb"
	"github.com/wrenger/unclude/internal/depindex"
	"github.com/wrenger/unclude/internal/pathresolve"
	"github.com/wrenger/unclude/internal/rewrite"
)

// Engine orchestrates PropagationEngine.Process runs.
type Engine struct {
	DB             *compiledb.DB
	Index          *depindex.Index
	Roots          []string
	IgnoreIncludes *regexp.Regexp
	Formatter      string // empty disables the external formatter call
	Verbose        bool
	Log            io.Writer
}

// Process analyzes file and, if it has unused includes, removes them and
// recurses depth-first into its dependents after adding the removed
// includes to each. A file with no unused includes is left as is and its
// dependents are not visited. visited is shared across the whole run and
// must start empty at the top-level call; each file is processed at most
// once.
func (e *Engine) Process(file string, visited map[string]bool) error {
	if visited[file] {
		e.logf("%s: cyclic include, skipping", file)
		return nil
	}
	visited[file] = true

	var deps compiledb.Dependents
	if e.Index != nil {
		deps = e.Index
	}
	args, _ := e.DB.ArgsFor(file, deps)
	_ = args // not passed to Analyze: the tree-sitter frontend takes no compile args

	result, err := analyzer.Analyze(analyzer.Options{
		MainFile:       file,
		Roots:          e.Roots,
		IgnoreIncludes: e.IgnoreIncludes,
		Verbose:        e.Verbose,
		Log:            e.logf1,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", file, err)
	}

	if len(result.Unused) == 0 {
		return nil
	}

	lines := make([]int, 0, len(result.Unused))
	for _, rec := range result.Unused {
		lines = append(lines, rec.Line)
	}
	if err := rewrite.RemoveIncludes(file, lines); err != nil {
		return fmt.Errorf("rewrite %s: %w", file, err)
	}
	e.logf("%s: removed %d unused include(s)", file, len(result.Unused))

	if e.Formatter != "" {
		if err := clangfmt.Format(e.Formatter, file); err != nil {
			return err
		}
	}

	if e.Index == nil {
		return nil
	}

	for _, dep := range e.Index.Dependents(file) {
		statements := make([]pathresolve.Statement, 0, len(result.Unused))
		for _, rec := range result.Unused {
			statements = append(statements, pathresolve.ChooseSpelling(rec.Path, dep, e.Roots))
		}
		if err := rewrite.AddIncludes(dep, statements); err != nil {
			return fmt.Errorf("rewrite %s: %w", dep, err)
		}

		if err := e.Process(dep, visited); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) logf(format string, args ...any) {
	if e.Log != nil {
		fmt.Fprintf(e.Log, format+"\n", args...)
	}
}

func (e *Engine) logf1(msg string) {
	if e.Log != nil {
		fmt.Fprintln(e.Log, msg)
	}
}
