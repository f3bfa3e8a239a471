// Package ucerr defines the error kinds shared across unclude's core
// packages, in the teacher's plain fmt.Errorf("...: %w", err) style.
package ucerr

import "errors"

// Sentinel kinds, matched with errors.Is by callers that need to branch
// on failure category. cmd/root does not branch on them: any error exits 1.
var (
	// ErrParse means the C/C++ frontend rejected a translation unit.
	ErrParse = errors.New("parse error")
	// ErrIO means a read/write/rename failed against a source file.
	ErrIO = errors.New("io error")
	// ErrConfig means a fatal startup misconfiguration: a missing compile
	// command, a malformed database/index file, or a bad regex/glob.
	ErrConfig = errors.New("config error")
	// ErrMissingInclude means a #include target could not be resolved.
	ErrMissingInclude = errors.New("missing include")
	// ErrCyclicInclude means PropagationEngine revisited a file in one run.
	ErrCyclicInclude = errors.New("cyclic include")
)

// Wrap annotates err with msg and associates it with kind so errors.Is(err, kind) holds.
func Wrap(kind error, msg string, err error) error {
	return &kindError{kind: kind, msg: msg, cause: err}
}

// New builds a kind-tagged error with no underlying cause.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *kindError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}
