// Package clangfmt invokes an external formatter (clang-format by default)
// to sort/normalize includes after a rewrite. Grounded on
// original_source/clangfmt.rs: the same "-lines=S:E per contiguous
// preprocessor block" scan, reimplemented with os/exec since no
// process-management library appears anywhere in the example corpus.
package clangfmt

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Format invokes exe on file with -i -sort-includes and one -lines=S:E
// range per contiguous preprocessor block. Diagnostics are printed to
// stderr but a non-zero exit from the formatter is tolerated: spec.md 6
// treats the formatter call as best-effort.
func Format(exe, file string) error {
	ranges, err := includeRanges(file)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}

	args := []string{file, "-i", "-sort-includes"}
	for _, r := range ranges {
		args = append(args, fmt.Sprintf("-lines=%d:%d", r[0], r[1]))
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", exe, err)
	}
	return nil
}

// includeRanges scans file for contiguous blocks of preprocessor-ish lines
// (starting with '#' or "//", or blank) separated by ordinary code lines,
// and returns their 1-based [start, end] line ranges.
func includeRanges(file string) ([][2]int, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ranges [][2]int
	inBlock := false
	start := 0
	lineNo := 0

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		isPreproc := line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")

		switch {
		case isPreproc && !inBlock:
			inBlock = true
			start = lineNo
		case !isPreproc && inBlock:
			inBlock = false
			ranges = append(ranges, [2]int{start, lineNo - 1})
		}
	}
	if inBlock {
		ranges = append(ranges, [2]int{start, lineNo})
	}
	return ranges, sc.Err()
}
