package safeio

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a failure into the taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPermission
	KindExists
	KindDecoding
	KindEncoding
	KindOS
	KindParameter
	KindPathValidation
)

// Sentinel errors, one per kind. Matched by errors.Is against any *Error of
// that kind.
var (
	ErrNotFound       = errors.New("safeio: file not found")
	ErrPermission     = errors.New("safeio: permission denied")
	ErrExists         = errors.New("safeio: file already exists")
	ErrDecoding       = errors.New("safeio: cannot decode text")
	ErrEncoding       = errors.New("safeio: cannot encode text")
	ErrOS             = errors.New("safeio: os failure")
	ErrParameter      = errors.New("safeio: invalid parameter")
	ErrPathValidation = errors.New("safeio: invalid path")
	ErrUnknown        = errors.New("safeio: unknown failure")
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindExists:
		return "already exists"
	case KindDecoding:
		return "decoding error"
	case KindEncoding:
		return "encoding error"
	case KindOS:
		return "os error"
	case KindParameter:
		return "parameter error"
	case KindPathValidation:
		return "path validation error"
	default:
		return "unknown error"
	}
}

// sentinel returns the sentinel error matched by errors.Is for this kind.
func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindPermission:
		return ErrPermission
	case KindExists:
		return ErrExists
	case KindDecoding:
		return ErrDecoding
	case KindEncoding:
		return ErrEncoding
	case KindOS:
		return ErrOS
	case KindParameter:
		return ErrParameter
	case KindPathValidation:
		return ErrPathValidation
	default:
		return ErrUnknown
	}
}

// Error is the structured error returned by all splurge-safe-io packages.
//
// Op names the failed operation ("read", "decode", "validate", ...), Path is
// the file involved (may be empty for parameter errors), and Err is the
// originating low-level error, if any.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := "safeio: " + e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes the originating error for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// New builds an *Error with a message and no underlying cause.
func New(kind Kind, op, path, msg string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg}
}

// Newf is New with a formatted message.
func Newf(kind Kind, op, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error, preserving it on the chain.
func Wrap(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Classify maps an arbitrary error onto the taxonomy.
//
// Already-classified errors pass through unchanged. OS-level errors map via
// the fs sentinels; anything else becomes KindUnknown. The original error is
// always kept on the chain.
func Classify(op, path string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	kind := KindUnknown
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	case errors.Is(err, fs.ErrExist):
		kind = KindExists
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			kind = KindOS
		}
	}

	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of err, or KindUnknown if err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
