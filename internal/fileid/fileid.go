// Package fileid gives files a stable identity for use as graph keys.
//
// The C/C++ frontends this tool was modeled on (libclang in particular)
// hand out an opaque FileID per translation unit. go-tree-sitter has no
// such concept, so identity here is the file's canonicalized absolute
// path: symlinks resolved, cleaned. That makes an ID stable across
// translation units, unlike a frontend-assigned one, which is the
// simplification this package exists to document.
package fileid

import (
	"fmt"
	"path/filepath"
)

// ID is the canonical identity of a physical file. Compare by value.
type ID struct {
	path string
}

// Of canonicalizes p into an ID. If the file does not exist (or a
// symlink cannot be resolved), the cleaned absolute path is used as-is
// so that not-yet-created dependents can still be named.
func Of(p string) (ID, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return ID{}, fmt.Errorf("fileid: resolve %s: %w", p, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return ID{path: filepath.Clean(abs)}, nil
}

// MustOf is Of but panics on error; for use with paths already known good.
func MustOf(p string) ID {
	id, err := Of(p)
	if err != nil {
		panic(err)
	}
	return id
}

// Path returns the canonical path backing this ID.
func (id ID) Path() string { return id.path }

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id.path == "" }

func (id ID) String() string { return id.path }
