// Package safeio defines the error taxonomy shared by the splurge-safe-io
// packages.
//
// Every failure surfaced by pathcheck, safetext, and the safeio CLI is one of
// a small, fixed set of kinds. Callers branch on kinds with errors.Is and the
// per-kind sentinel errors:
//
//	lines, err := reader.ReadLines()
//	if errors.Is(err, safeio.ErrNotFound) {
//	    // handle a missing file
//	}
//
// The originating low-level error (an *os.PathError, a decode failure, ...)
// is always preserved on the error chain for diagnostics:
//
//	var ioErr *safeio.Error
//	if errors.As(err, &ioErr) {
//	    log.Printf("op=%s path=%s cause=%v", ioErr.Op, ioErr.Path, ioErr.Err)
//	}
//
// # Kinds
//
//   - KindNotFound: the source file does not exist
//   - KindPermission: the OS denied access
//   - KindExists: a create-new write found an existing file
//   - KindDecoding: bytes are not valid in the declared encoding
//   - KindEncoding: text cannot be represented in the declared encoding
//   - KindOS: any other OS-level failure
//   - KindParameter: a caller-supplied parameter is out of range
//   - KindPathValidation: a path failed pre-flight validation
//   - KindUnknown: anything not classified above
package safeio
