// Package watch implements "unclude watch": re-run the primary operation on
// a fixed file set whenever the compilation database or dependency index
// file changes. Supplemental ambient tooling relative to spec.md, which
// only specifies a one-shot CLI; grounded on the teacher's cmd/watch
// (cobra scaffolding, fsnotify debounce loop), trimmed to this module's one
// job and stripped of the teacher's HTTP live-viewer and git-state polling.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wrenger/unclude/internal/compiledb"
	"github.com/wrenger/unclude/internal/depindex"
	"github.com/wrenger/unclude/internal/filterx"
	"github.com/wrenger/unclude/internal/propagate"
)

type watchOptions struct {
	filter         string
	compilations   string
	index          string
	clangFormat    string
	ignoreIncludes string
}

const defaultIgnoreIncludes = `(/private/|[_/]impl[_\./])`

// Cmd represents the watch command.
var Cmd = NewCommand()

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		filter:         ".",
		clangFormat:    "clang-format",
		ignoreIncludes: defaultIgnoreIncludes,
	}

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Watch the compilation database and re-run propagation on change",
		Long:  `Watch the compilation database (and dependency index, if given) for changes and re-run the unused-include removal and propagation for each given file whenever either changes.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", opts.filter, "Regular expression or glob applied to source paths")
	cmd.Flags().StringVarP(&opts.compilations, "compilations", "c", "", "Compilation database file (JSON or YAML array of {file, command})")
	cmd.Flags().StringVar(&opts.index, "index", "", "Precomputed dependency index file")
	cmd.Flags().StringVar(&opts.clangFormat, "clang-format", opts.clangFormat, "Formatter invoked after rewrite")
	cmd.Flags().StringVar(&opts.ignoreIncludes, "ignore-includes", opts.ignoreIncludes, "Includes matching this regex are left in place")

	return cmd
}

func runWatch(cmd *cobra.Command, files []string, opts *watchOptions) error {
	if opts.compilations == "" {
		return fmt.Errorf("watch: -c/--compilations is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", opts.compilations)
	if err := runOnce(cmd, files, opts); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "initial run failed: %v\n", err)
	}

	return watchAndRebuild(ctx, opts, func() {
		if err := runOnce(cmd, files, opts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "rebuild failed: %v\n", err)
		}
	})
}

func runOnce(cmd *cobra.Command, files []string, opts *watchOptions) error {
	filter, err := filterx.New(opts.filter)
	if err != nil {
		return err
	}
	ignoreRE, err := regexp.Compile(opts.ignoreIncludes)
	if err != nil {
		return fmt.Errorf("compile --ignore-includes: %w", err)
	}

	db, err := compiledb.Parse(opts.compilations, filter)
	if err != nil {
		return err
	}
	roots := db.CollectIncludePaths()

	var idx *depindex.Index
	if opts.index != "" {
		idx, err = depindex.Load(opts.index)
	} else {
		idx, err = depindex.Build(db, roots, filter)
	}
	if err != nil {
		return err
	}

	engine := &propagate.Engine{
		DB:             db,
		Index:          idx,
		Roots:          roots,
		IgnoreIncludes: ignoreRE,
		Formatter:      opts.clangFormat,
		Log:            cmd.ErrOrStderr(),
	}

	visited := map[string]bool{}
	for _, file := range files {
		if err := engine.Process(file, visited); err != nil {
			return err
		}
	}
	return nil
}
