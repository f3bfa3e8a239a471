// Package sourcescan extracts #include directives from C/C++ source text,
// respecting #if/#endif nesting and #pragma once, without needing a full
// preprocessor. Grounded on the depth-tracking scan the teacher's tree-sitter
// based parsers replace with an AST walk; this package restores the
// text-level version this tool's rewriter needs (offsets and line numbers
// that survive preprocessor conditionals untouched).
package sourcescan

import (
	"os"
	"regexp"
	"strings"
)

var (
	reLocalInclude = regexp.MustCompile(`^\s*#\s*include\s*"([^"]+)"`)
	rePragmaOnce   = regexp.MustCompile(`^\s*#\s*pragma\s+once`)
	reIf           = regexp.MustCompile(`^\s*#\s*if`)
	reEndif        = regexp.MustCompile(`^\s*#\s*endif`)
)

var headerExts = map[string]bool{
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".inl": true,
}

// IsHeader reports whether path looks like a C/C++ header by extension.
func IsHeader(path string) bool {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return false
	}
	return headerExts[strings.ToLower(path[dot:])]
}

// line is one physical line of source, with its start byte offset and its
// length in bytes including the line terminator (0 for a final line with
// none), so offsets can be reconstructed without re-reading the file.
type line struct {
	text   string
	start  int
	rawLen int
}

func splitLines(data []byte) []line {
	var lines []line
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			end := i
			if end > start && data[end-1] == '\r' {
				end--
			}
			lines = append(lines, line{text: string(data[start:end]), start: start, rawLen: i + 1 - start})
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, line{text: string(data[start:]), start: start, rawLen: len(data) - start})
	}
	return lines
}

// ParseIncludes returns the set of top-level local include spellings (the
// text between the quotes) appearing at conditional nesting depth 0.
//
// Headers start at depth -1 so their own include guard doesn't mask the
// includes it wraps. Sources start at depth 0, and the first depth-0
// include (conventionally the header matching the source) is skipped so
// it is never re-added elsewhere by propagation.
//
// Unreadable files yield an empty set, not an error: a missing file is
// not this scanner's problem to report.
func ParseIncludes(path string) map[string]bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]bool{}
	}
	found, _ := scan(data, IsHeader(path))
	return found
}

// ScanForInsertionOffset walks the same way as ParseIncludes but returns the
// byte offset at which the line of the first matching include starts (just
// past the line preceding it; for sources, the first include after the
// initial skip), plus the set of includes seen along the way. Offset is 0 if
// none is found.
func ScanForInsertionOffset(path string) (offset int, includes map[string]bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, map[string]bool{}
	}
	includes, offset = scan(data, IsHeader(path))
	return offset, includes
}

func scan(data []byte, isHeader bool) (found map[string]bool, offset int) {
	found = map[string]bool{}
	depth := -1
	skipFirst := false
	if !isHeader {
		depth = 0
		skipFirst = true
	}

	foundOffset := false
	for _, ln := range splitLines(data) {
		switch {
		case rePragmaOnce.MatchString(ln.text), reIf.MatchString(ln.text):
			depth++
		case reEndif.MatchString(ln.text):
			depth--
		case depth == 0:
			if m := reLocalInclude.FindStringSubmatch(ln.text); m != nil {
				if skipFirst {
					skipFirst = false
					continue
				}
				found[m[1]] = true
				if !foundOffset {
					foundOffset = true
					offset = ln.start
				}
			}
		}
	}
	return found, offset
}
