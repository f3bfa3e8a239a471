// Package deps implements "unclude deps": print the reverse dependency tree
// of a file. Supplemental relative to spec.md's one-shot CLI, grounded on
// original_source/dependencies.rs::print_dependency_tree (dropped by the
// distillation; see SPEC_FULL.md 6) and, for its cobra scaffolding, on the
// teacher's cmd/why/why_cmd.go trimmed to this module's one relationship.
package deps

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenger/unclude/internal/compiledb"
	"github.com/wrenger/unclude/internal/depindex"
	"github.com/wrenger/unclude/internal/filterx"
)

type depsOptions struct {
	filter       string
	compilations string
	index        string
}

// Cmd represents the deps command.
var Cmd = newCommand()

func newCommand() *cobra.Command {
	opts := &depsOptions{filter: "."}

	cmd := &cobra.Command{
		Use:   "deps <file>",
		Short: "Print the files that (directly or transitively) depend on a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", opts.filter, "Regular expression or glob applied to source paths")
	cmd.Flags().StringVarP(&opts.compilations, "compilations", "c", "", "Compilation database file (JSON or YAML array of {file, command})")
	cmd.Flags().StringVar(&opts.index, "index", "", "Precomputed dependency index file")

	return cmd
}

func runDeps(cmd *cobra.Command, file string, opts *depsOptions) error {
	filter, err := filterx.New(opts.filter)
	if err != nil {
		return err
	}

	var idx *depindex.Index
	if opts.index != "" {
		idx, err = depindex.Load(opts.index)
		if err != nil {
			return err
		}
	} else if opts.compilations != "" {
		db, err := compiledb.Parse(opts.compilations, filter)
		if err != nil {
			return err
		}
		idx, err = depindex.Build(db, db.CollectIncludePaths(), filter)
		if err != nil {
			return err
		}
	} else {
		return fmt.Errorf("deps: one of --index or --compilations is required")
	}

	depindex.Print(cmd.OutOrStdout(), idx, file)
	return nil
}
