package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	depscmd "github.com/wrenger/unclude/cmd/deps"
	watchcmd "github.com/wrenger/unclude/cmd/watch"
	"github.com/wrenger/unclude/internal/compiledb"
	"github.com/wrenger/unclude/internal/depindex"
	"github.com/wrenger/unclude/internal/filterx"
	"github.com/wrenger/unclude/internal/propagate"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

const defaultIgnoreIncludes = `(/private/|[_/]impl[_\./])`

type rootOptions struct {
	filter         string
	compilations   string
	index          string
	clangFormat    string
	ignoreIncludes string
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	opts := &rootOptions{
		filter:         ".",
		clangFormat:    "clang-format",
		ignoreIncludes: defaultIgnoreIncludes,
	}

	cmd := &cobra.Command{
		Use:     "unclude <file> [-- extra compiler args...]",
		Short:   "Remove unused #include directives and propagate them to dependents",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if dash := cmd.ArgsLenAtDash(); dash >= 0 && dash <= len(args) {
				args = args[:dash]
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args[0], opts, extraArgs(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", opts.filter, "Regular expression or glob applied to source paths")
	cmd.Flags().StringVarP(&opts.compilations, "compilations", "c", "", "Compilation database file (JSON or YAML array of {file, command})")
	cmd.Flags().StringVar(&opts.index, "index", "", "Precomputed dependency index file (header path -> including-file paths)")
	cmd.Flags().StringVar(&opts.clangFormat, "clang-format", opts.clangFormat, "Formatter invoked after rewrite")
	cmd.Flags().StringVar(&opts.ignoreIncludes, "ignore-includes", opts.ignoreIncludes, "Includes matching this regex are left in place")

	return cmd
}

// extraArgs returns the arguments following the "--" sentinel.
func extraArgs(cmd *cobra.Command) []string {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return nil
	}
	args := cmd.Flags().Args()
	if dash >= len(args) {
		return nil
	}
	return args[dash:]
}

func runRoot(cmd *cobra.Command, file string, opts *rootOptions, extra []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	filter, err := filterx.New(opts.filter)
	if err != nil {
		return err
	}

	ignoreRE, err := regexp.Compile(opts.ignoreIncludes)
	if err != nil {
		return fmt.Errorf("compile --ignore-includes: %w", err)
	}

	var db *compiledb.DB
	if opts.compilations != "" {
		db, err = compiledb.Parse(opts.compilations, filter)
		if err != nil {
			return err
		}
	} else {
		db = compiledb.Empty()
	}
	roots := db.CollectIncludePaths()

	var idx *depindex.Index
	if opts.index != "" {
		idx, err = depindex.Load(opts.index)
		if err != nil {
			return err
		}
	} else {
		idx, err = depindex.Build(db, roots, filter)
		if err != nil {
			return err
		}
		if err := depindex.Save(idx, "dependencies.json"); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write dependencies.json: %v\n", err)
		}
	}

	_ = extra // accepted but not passed on: the tree-sitter frontend takes no compile args

	engine := &propagate.Engine{
		DB:             db,
		Index:          idx,
		Roots:          roots,
		IgnoreIncludes: ignoreRE,
		Formatter:      opts.clangFormat,
		Verbose:        verbose,
		Log:            cmd.ErrOrStderr(),
	}

	return engine.Process(file, map[string]bool{})
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(depscmd.Cmd)
	rootCmd.AddCommand(watchcmd.Cmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug output")

	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)
}
