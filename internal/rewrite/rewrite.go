// Package rewrite mutates source files in place: removing include lines by
// number and inserting new ones at the canonical head-of-includes offset,
// always via a sibling temp file plus rename so a crash never leaves a
// half-written file. Grounded on the teacher's atomic-replace idiom used for
// rewriting files elsewhere in depgraph, generalized to line removal/insertion.
package rewrite

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wrenger/unclude/internal/pathresolve"
	"github.com/wrenger/unclude/internal/sourcescan"
	"github.com/wrenger/unclude/internal/ucerr"
)

// RemoveIncludes deletes the given 1-based line numbers from file, replacing
// its content atomically. lines order does not matter.
func RemoveIncludes(file string, lines []int) error {
	drop := make(map[int]bool, len(lines))
	for _, l := range lines {
		drop[l] = true
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "read "+file, err)
	}

	var out []byte
	lineNo := 1
	start := 0
	for i, b := range data {
		if b == '\n' {
			if !drop[lineNo] {
				out = append(out, data[start:i+1]...)
			}
			start = i + 1
			lineNo++
		}
	}
	if start < len(data) && !drop[lineNo] {
		out = append(out, data[start:]...)
	}

	return atomicWrite(file, out)
}

// AddIncludes inserts statements at the canonical head-of-includes offset of
// file, skipping any whose payload is already present among file's existing
// local includes. Existing content is never reordered.
func AddIncludes(file string, statements []pathresolve.Statement) error {
	offset, existing := sourcescan.ScanForInsertionOffset(file)

	data, err := os.ReadFile(file)
	if err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "read "+file, err)
	}
	if offset > len(data) {
		offset = len(data)
	}

	var buf []byte
	buf = append(buf, data[:offset]...)
	for _, st := range statements {
		if !st.Global && existing[st.Path] {
			continue
		}
		buf = append(buf, []byte(st.String()+"\n")...)
	}
	buf = append(buf, data[offset:]...)

	return atomicWrite(file, buf)
}

func atomicWrite(file string, data []byte) error {
	dir := filepath.Dir(file)
	tmp, err := os.CreateTemp(dir, ".unclude-*.tmp")
	if err != nil {
		return ucerr.Wrap(ucerr.ErrIO, "create temp file", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return ucerr.Wrap(ucerr.ErrIO, "write temp file", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return ucerr.Wrap(ucerr.ErrIO, "flush temp file", err)
	}
	if info, err := os.Stat(file); err == nil {
		os.Chmod(tmpPath, info.Mode())
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return ucerr.Wrap(ucerr.ErrIO, "close temp file", err)
	}
	if err := os.Rename(tmpPath, file); err != nil {
		os.Remove(tmpPath)
		return ucerr.Wrap(ucerr.ErrIO, fmt.Sprintf("rename %s to %s", tmpPath, file), err)
	}
	return nil
}
