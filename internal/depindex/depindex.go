// Package depindex builds and queries the project-wide reverse dependency
// index: header path -> files that directly #include it. Grounded on
// original_source/dependencies.rs (index/print_dependency_tree) for the
// shape of the query and on the teacher's single narrow use of
// dominikbraun/graph (depgraph/golang's FinalizeGraph) for the graph
// storage itself, generalized here into the index's primary structure
// rather than a finalization afterthought.
package depindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	graphlib "github.com/dominikbraun/graph"

	"github.com/wrenger/unclude/internal/compiledb"
	"github.com/wrenger/unclude/internal/fileid"
	"github.com/wrenger/unclude/internal/filterx"
	"github.com/wrenger/unclude/internal/pathresolve"
	"github.com/wrenger/unclude/internal/sourcescan"
	"github.com/wrenger/unclude/internal/ucerr"
)

// Index is the reverse dependency index: header -> directly-including files.
// Edges run header->dependent so graphlib.AdjacencyMap(header) yields the
// direct dependents directly.
type Index struct {
	g graphlib.Graph[string, string]
}

// New builds an empty index.
func New() *Index {
	return &Index{g: graphlib.New(graphlib.StringHash, graphlib.Directed())}
}

func (idx *Index) ensure(path string) {
	_ = idx.g.AddVertex(path)
}

func (idx *Index) link(header, dependent string) {
	idx.ensure(header)
	idx.ensure(dependent)
	if err := idx.g.AddEdge(header, dependent); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		// best-effort: a malformed edge never aborts index construction.
		return
	}
}

// Build constructs the index from db's matching sources plus every header
// found under db's collected include roots, canonicalizing both endpoints of
// each edge before insertion.
func Build(db *compiledb.DB, roots []string, filter filterx.Filter) (*Index, error) {
	idx := New()

	for _, src := range db.Files() {
		idx.indexFile(src, roots)
	}

	for _, root := range roots {
		headers, err := walkHeaders(root, filter)
		if err != nil {
			return nil, err
		}
		for _, h := range headers {
			idx.indexFile(h, roots)
		}
	}

	return idx, nil
}

func (idx *Index) indexFile(file string, roots []string) {
	for spelling := range sourcescan.ParseIncludes(file) {
		target, ok := pathresolve.FindInclude(file, spelling, roots)
		if !ok {
			continue // MissingInclude: edge omitted; nothing is reported
		}
		idx.link(canon(target), canon(file))
	}
}

func canon(p string) string {
	if id, err := fileid.Of(p); err == nil {
		return id.Path()
	}
	return p
}

// walkHeaders lists every header file under root matching filter.
func walkHeaders(root string, filter filterx.Filter) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !sourcescan.IsHeader(path) {
			return nil
		}
		if filter != nil && !filter.Match(path) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, ucerr.Wrap(ucerr.ErrIO, "walk include root "+root, err)
	}
	return out, nil
}

// Dependents returns the direct reverse-dependents of file.
func (idx *Index) Dependents(file string) []string {
	if idx == nil {
		return nil
	}
	file = canon(file)
	adj, err := idx.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	edges, ok := adj[file]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(edges))
	for target := range edges {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Print writes the dependency tree rooted at file to w, depth-first,
// annotating a file already seen higher in the current branch as circular
// instead of recursing into it again.
func Print(w io.Writer, idx *Index, file string) {
	printTree(w, idx, canon(file), map[string]bool{}, 0)
}

func printTree(w io.Writer, idx *Index, file string, ancestors map[string]bool, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	if ancestors[file] {
		fmt.Fprintf(w, "%s%s (circular)\n", indent, file)
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, file)

	ancestors[file] = true
	defer delete(ancestors, file)

	for _, dep := range idx.Dependents(file) {
		printTree(w, idx, dep, ancestors, depth+1)
	}
}

// Save persists the index as header -> []dependent to path, in the on-disk
// format --index reads back (spec.md 6).
func Save(idx *Index, path string) error {
	adj, err := idx.g.AdjacencyMap()
	if err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "build adjacency map", err)
	}

	out := map[string][]string{}
	for header, edges := range adj {
		deps := make([]string, 0, len(edges))
		for dep := range edges {
			deps = append(deps, dep)
		}
		out[header] = deps
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "marshal dependency index", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "write "+path, err)
	}
	return nil
}

// Load reads a previously Saved index (or a hand-authored --index file: a
// mapping from header path to list of including-file paths).
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ucerr.Wrap(ucerr.ErrIO, "read index "+path, err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ucerr.Wrap(ucerr.ErrConfig, "parse index "+path, err)
	}

	idx := New()
	for header, deps := range raw {
		idx.ensure(canon(header))
		for _, dep := range deps {
			idx.link(canon(header), canon(dep))
		}
	}
	return idx, nil
}
