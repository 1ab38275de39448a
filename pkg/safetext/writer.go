package safetext

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/jim-schilling/splurge-safe-io/pkg/pathcheck"
	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

// WriteMode selects how the destination file is opened.
type WriteMode int

const (
	// CreateOrTruncate replaces the destination's content. The default.
	CreateOrTruncate WriteMode = iota

	// CreateNew fails with an already-exists error if the destination
	// exists.
	CreateNew

	// Append adds to the end of the destination, creating it if needed.
	Append
)

// writerConfig holds writer configuration.
type writerConfig struct {
	encoding      string
	mode          WriteMode
	createParents bool
}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

// WriterEncoding sets the output text encoding by name.
//
// Default: "utf-8".
func WriterEncoding(name string) WriterOption {
	return func(c *writerConfig) {
		c.encoding = name
	}
}

// Mode sets the write mode.
//
// Default: CreateOrTruncate.
func Mode(m WriteMode) WriterOption {
	return func(c *writerConfig) {
		c.mode = m
	}
}

// CreateParents creates missing parent directories of the destination.
//
// Default: a missing parent is an error.
func CreateParents() WriterOption {
	return func(c *writerConfig) {
		c.createParents = true
	}
}

// Writer writes newline-normalized text to a file.
//
// In CreateOrTruncate and CreateNew modes the content is staged in a
// same-directory temporary file and moved into place on Close, so readers
// never observe a half-written destination. Append mode writes in place.
//
// Call Close to commit. Abort discards staged content and is a no-op after
// a successful Close, so `defer w.Abort()` is the idiomatic cleanup.
type Writer struct {
	dest string
	cfg  writerConfig
	cdc  codec

	f   *os.File
	tw  *transform.Writer // non-nil when encoding into f through x/text
	w   io.Writer         // tw when present, else f
	tmp string            // staging path; empty in append mode

	closed bool
}

// NewWriter validates the destination and opens the staging file.
func NewWriter(path string, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{encoding: DefaultEncoding}
	for _, opt := range opts {
		opt(&cfg)
	}

	cdc, err := resolveCodec(cfg.encoding)
	if err != nil {
		return nil, err
	}

	dest, err := pathcheck.Validate(path)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Lstat(dest); statErr == nil {
		if info.IsDir() {
			return nil, safeio.New(safeio.KindPathValidation, "new_writer", dest,
				"destination is a directory")
		}
		if cfg.mode == CreateNew {
			return nil, safeio.New(safeio.KindExists, "new_writer", dest, "")
		}
	}

	if cfg.createParents {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, safeio.Classify("mkdir", filepath.Dir(dest), err)
		}
	}

	w := &Writer{dest: dest, cfg: cfg, cdc: cdc}
	if cfg.mode == Append {
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, safeio.Classify("open", dest, err)
		}
		w.f = f
	} else {
		f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
		if err != nil {
			return nil, safeio.Classify("create_temp", dest, err)
		}
		w.f = f
		w.tmp = f.Name()
	}

	if cdc.enc != nil {
		w.tw = transform.NewWriter(w.f, cdc.enc.NewEncoder())
		w.w = w.tw
	} else {
		w.w = w.f
	}
	return w, nil
}

// Write normalizes text's line breaks to the canonical newline, encodes it,
// and writes it.
func (w *Writer) Write(text string) error {
	if w.closed {
		return safeio.New(safeio.KindParameter, "write", w.dest, "writer is closed")
	}
	normalized := normalizeNewlines(text)
	if w.cdc.enc == nil && !utf8.ValidString(normalized) {
		return safeio.New(safeio.KindEncoding, "write", w.dest,
			"text is not valid UTF-8")
	}
	if _, err := io.WriteString(w.w, normalized); err != nil {
		return safeio.Wrap(safeio.KindEncoding, "write", w.dest, err)
	}
	return nil
}

// WriteLines writes each line followed by the canonical newline.
func (w *Writer) WriteLines(lines []string) error {
	for _, line := range lines {
		if err := w.Write(line); err != nil {
			return err
		}
		if err := w.Write(CanonicalNewline); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes, commits staged content to the destination, and releases
// the file. Closing twice is an error.
func (w *Writer) Close() error {
	if w.closed {
		return safeio.New(safeio.KindParameter, "close", w.dest, "writer is closed")
	}
	w.closed = true

	if w.tw != nil {
		if err := w.tw.Close(); err != nil {
			w.discard()
			return safeio.Wrap(safeio.KindEncoding, "close", w.dest, err)
		}
	}
	if err := w.f.Close(); err != nil {
		w.removeTemp()
		return safeio.Classify("close", w.dest, err)
	}
	if w.tmp != "" {
		if err := os.Rename(w.tmp, w.dest); err != nil {
			w.removeTemp()
			return safeio.Classify("rename", w.dest, err)
		}
		w.tmp = ""
	}
	return nil
}

// Abort discards staged content. After a successful Close it does nothing.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	w.discard()
}

func (w *Writer) discard() {
	w.f.Close()
	w.removeTemp()
}

func (w *Writer) removeTemp() {
	if w.tmp != "" {
		os.Remove(w.tmp)
		w.tmp = ""
	}
}

// normalizeNewlines rewrites CRLF and lone CR to the canonical newline.
func normalizeNewlines(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
