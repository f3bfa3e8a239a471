package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/wrenger/unclude/internal/ucerr"
)

// directive is one #include directive as seen by the frontend: its
// spelling, whether it used angle brackets, its 1-based starting line, and
// whether a "// keep" marker pins it in place.
type directive struct {
	Path   string
	Global bool
	Line   int
	Keep   bool
}

var reKeepMarker = regexp.MustCompile(`^\s*//\s*keep`)

var cppExts = map[string]bool{".cc": true, ".cpp": true, ".cxx": true, ".hpp": true, ".hh": true, ".hxx": true}

func languageFor(path string) *sitter.Language {
	if cppExts[strings.ToLower(filepath.Ext(path))] {
		return cpp.GetLanguage()
	}
	return c.GetLanguage()
}

// parseTree parses path with the C or C++ grammar chosen by its extension.
func parseTree(path string) (*sitter.Tree, []byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, ucerr.Wrap(ucerr.ErrIO, "read "+path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, nil, ucerr.Wrap(ucerr.ErrParse, fmt.Sprintf("parse %s", path), err)
	}
	return tree, source, nil
}

// extractDirectives walks the AST for every preproc_include directive.
func extractDirectives(root *sitter.Node, source []byte) []directive {
	lines := strings.Split(string(source), "\n")
	var out []directive

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "preproc_include" {
			if d, ok := directiveFromNode(n, source, lines); ok {
				out = append(out, d)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func directiveFromNode(n *sitter.Node, source []byte, lines []string) (directive, bool) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		var d directive
		switch child.Type() {
		case "string_literal":
			d = directive{Path: strings.Trim(child.Content(source), `"' `), Global: false}
		case "system_lib_string":
			raw := strings.TrimSpace(child.Content(source))
			d = directive{Path: strings.Trim(strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">"), " "), Global: true}
		default:
			continue
		}

		row := int(n.StartPoint().Row)
		d.Line = row + 1
		if row >= 0 && row < len(lines) && int(child.EndPoint().Row) == row {
			col := int(child.EndPoint().Column)
			if col <= len(lines[row]) {
				d.Keep = reKeepMarker.MatchString(lines[row][col:])
			}
		}
		return d, true
	}
	return directive{}, false
}
