// Package pathcheck validates filesystem paths before they are handed to the
// readers and writers in this module.
//
// Validation is a pre-flight check, not a security boundary: it rejects
// obviously hostile or malformed paths (NUL and control characters,
// traversal out of a configured base directory) and verifies the
// existence/type/access requirements the caller declares.
//
// # Usage
//
//	resolved, err := pathcheck.Validate(path,
//	    pathcheck.MustExist(),
//	    pathcheck.MustBeFile(),
//	    pathcheck.MustBeReadable(),
//	)
//
// The returned path is absolute and cleaned. All failures are safeio errors;
// branch on them with errors.Is and the safeio sentinels.
package pathcheck
