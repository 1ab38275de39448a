package pathcheck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

// Validate checks path against the given requirements and returns it in
// absolute, cleaned form.
func Validate(path string, opts ...Option) (string, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if path == "" {
		return "", safeio.New(safeio.KindPathValidation, "validate", path, "path is empty")
	}
	if i := strings.IndexFunc(path, isForbiddenRune); i >= 0 {
		return "", safeio.Newf(safeio.KindPathValidation, "validate", path,
			"path contains forbidden character at offset %d", i)
	}

	for _, policy := range cfg.policies {
		if err := policy(path); err != nil {
			var e *safeio.Error
			if errors.As(err, &e) {
				return "", e
			}
			return "", safeio.Wrap(safeio.KindPathValidation, "validate", path, err)
		}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", safeio.Wrap(safeio.KindPathValidation, "validate", path, err)
	}

	if cfg.base != "" {
		if err := checkWithinBase(abs, cfg.base); err != nil {
			return "", err
		}
	}

	info, statErr := os.Stat(abs)
	if cfg.mustExist && statErr != nil {
		return "", safeio.Classify("stat", abs, statErr)
	}

	if cfg.mustBeFile && statErr == nil && !info.Mode().IsRegular() {
		return "", safeio.New(safeio.KindPathValidation, "validate", abs, "not a regular file")
	}

	if cfg.mustBeReadable {
		f, err := os.Open(abs)
		if err != nil {
			return "", safeio.Classify("open", abs, err)
		}
		f.Close()
	}

	if cfg.mustBeWritable {
		if err := checkWritable(abs, statErr == nil); err != nil {
			return "", err
		}
	}

	return abs, nil
}

// checkWithinBase rejects abs if it resolves outside base.
func checkWithinBase(abs, base string) error {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return safeio.Wrap(safeio.KindPathValidation, "validate", base, err)
	}
	rel, err := filepath.Rel(absBase, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return safeio.Newf(safeio.KindPathValidation, "validate", abs,
			"path escapes base directory %s", absBase)
	}
	return nil
}

// checkWritable verifies write access without truncating existing content.
func checkWritable(abs string, exists bool) error {
	if exists {
		f, err := os.OpenFile(abs, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return safeio.Classify("open", abs, err)
		}
		f.Close()
		return nil
	}
	parent := filepath.Dir(abs)
	info, err := os.Stat(parent)
	if err != nil {
		return safeio.Classify("stat", parent, err)
	}
	if !info.IsDir() {
		return safeio.New(safeio.KindPathValidation, "validate", abs, "parent is not a directory")
	}
	return nil
}

// isForbiddenRune reports NUL and other control characters, which are never
// legitimate in a path handed to this module.
func isForbiddenRune(r rune) bool {
	return r < 0x20 || r == 0x7f
}
