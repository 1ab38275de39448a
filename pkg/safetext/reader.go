package safetext

import (
	"io"
	"os"
	"strings"

	"github.com/jim-schilling/splurge-safe-io/pkg/pathcheck"
	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

// Reader reads a text file as newline-normalized logical lines.
//
// A Reader is cheap and immutable: configuration is fixed at construction
// and every read operation opens its own pass over the file. Concurrent
// operations on one Reader are safe because no state is shared between
// passes.
type Reader struct {
	path string
	cfg  config
	cdc  codec
}

// New validates path, resolves the configured encoding, and probes its
// decode capability. The path must exist, be a regular file, and be
// readable.
func New(path string, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.skipHeader < 0 {
		return nil, safeio.Newf(safeio.KindParameter, "new_reader", path,
			"skip header lines must be >= 0, got %d", cfg.skipHeader)
	}
	if cfg.skipFooter < 0 {
		return nil, safeio.Newf(safeio.KindParameter, "new_reader", path,
			"skip footer lines must be >= 0, got %d", cfg.skipFooter)
	}
	if cfg.chunkSize < MinChunkSize {
		cfg.chunkSize = MinChunkSize
	}
	if cfg.bufferSize < MinBufferSize {
		cfg.bufferSize = MinBufferSize
	}

	cdc, err := resolveCodec(cfg.encoding)
	if err != nil {
		return nil, err
	}

	validated, err := pathcheck.Validate(path,
		pathcheck.MustExist(),
		pathcheck.MustBeFile(),
		pathcheck.MustBeReadable(),
	)
	if err != nil {
		return nil, err
	}

	return &Reader{path: validated, cfg: cfg, cdc: cdc}, nil
}

// Path returns the validated absolute path this Reader reads.
func (r *Reader) Path() string {
	return r.path
}

// Stream opens the file and returns a pull-based stream of line chunks.
// The caller owns the Stream and must Close it (deferring Close is always
// safe; it is a no-op after normal exhaustion).
func (r *Reader) Stream() (*Stream, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, safeio.Classify("open", r.path, err)
	}

	s := &Stream{
		path:       r.path,
		cfg:        r.cfg,
		f:          f,
		dec:        r.cdc.newDecoder(),
		buf:        make([]byte, r.cfg.bufferSize),
		headerLeft: r.cfg.skipHeader,
	}

	if r.cdc.path == fullBufferPath {
		// Deterministic fallback chosen at open time: decode the whole
		// file now; chunks are then served from the materialized lines
		// and the file handle is already released.
		if err := s.fillAll(); err != nil {
			s.fail(err)
			return nil, err
		}
	}
	return s, nil
}

// ReadLines reads the whole file through the filter pipeline and returns
// the logical lines.
func (r *Reader) ReadLines() ([]string, error) {
	s, err := r.Stream()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	lines := []string{}
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, chunk...)
	}
}

// Read reads the whole file and returns its filtered lines joined with the
// canonical newline.
func (r *Reader) Read() (string, error) {
	lines, err := r.ReadLines()
	if err != nil {
		return "", err
	}
	return strings.Join(lines, CanonicalNewline), nil
}

// Preview returns at most maxLines filtered lines from the start of the
// file, stopping the underlying read as soon as enough lines are available.
// The file handle is released before Preview returns, however iteration
// stopped.
func (r *Reader) Preview(maxLines int) ([]string, error) {
	if maxLines < 0 {
		return nil, safeio.Newf(safeio.KindParameter, "preview", r.path,
			"max lines must be >= 0, got %d", maxLines)
	}
	if maxLines == 0 {
		return []string{}, nil
	}

	s, err := r.Stream()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	lines := []string{}
	for len(lines) < maxLines {
		chunk, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, chunk...)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines, nil
}

// LineCount counts the file's logical lines using the default size
// threshold to pick between the materializing and streaming strategies.
func (r *Reader) LineCount() (int, error) {
	return r.LineCountThreshold(DefaultLineCountThreshold)
}

// LineCountThreshold counts logical lines. Files no larger than
// thresholdBytes are counted by materializing the lines; larger files are
// counted by streaming chunks without retaining them.
//
// The count ignores the header and footer skip settings by definition (it
// counts every logical line on disk) but honors SkipEmptyLines. Thresholds
// below MinLineCountThreshold are rejected with a parameter error.
func (r *Reader) LineCountThreshold(thresholdBytes int64) (int, error) {
	if thresholdBytes < MinLineCountThreshold {
		return 0, safeio.Newf(safeio.KindParameter, "line_count", r.path,
			"threshold %d below minimum %d", thresholdBytes, MinLineCountThreshold)
	}

	counting := *r
	counting.cfg.skipHeader = 0
	counting.cfg.skipFooter = 0

	info, err := os.Stat(r.path)
	if err != nil {
		return 0, safeio.Classify("stat", r.path, err)
	}

	if info.Size() <= thresholdBytes {
		lines, err := counting.ReadLines()
		if err != nil {
			return 0, err
		}
		return len(lines), nil
	}

	s, err := counting.Stream()
	if err != nil {
		return 0, err
	}
	defer s.Close()

	total := 0
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return 0, err
		}
		total += len(chunk)
	}
}
