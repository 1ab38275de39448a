package safetext

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

// Stream is a single-pass, pull-based sequence of line chunks.
//
// Call Next until it returns io.EOF, and Close when done. Close is
// idempotent and safe to defer; the underlying file is released on normal
// exhaustion, on Close, and on any error, with no code path that leaves it
// open. A Stream is not restartable; obtain a fresh one from the Reader.
type Stream struct {
	path string
	cfg  config

	f     *os.File // nil once released
	dec   textDecoder
	split lineSplitter
	buf   []byte

	headerLeft int
	footer     []string // bounded FIFO of footer candidates, size <= skipFooter
	queue      []string // filtered lines awaiting chunk assembly

	exhausted bool
	closed    bool
	err       error // sticky failure
}

// Next returns the next chunk of filtered logical lines.
//
// Chunks hold at most the configured chunk size and are never empty; when
// the source is exhausted Next returns io.EOF. After an error, Next keeps
// returning that same error.
func (s *Stream) Next() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, io.EOF
	}

	for {
		if len(s.queue) >= s.cfg.chunkSize {
			return s.take(s.cfg.chunkSize), nil
		}
		if s.exhausted {
			if len(s.queue) > 0 {
				return s.take(len(s.queue)), nil
			}
			s.Close()
			return nil, io.EOF
		}
		if err := s.fill(); err != nil {
			s.fail(err)
			return nil, s.err
		}
	}
}

// Close releases the underlying file. It is safe to call any number of
// times and after Next has returned io.EOF.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.queue = nil
	s.footer = nil
	return s.release()
}

// take removes and returns the first n queued lines.
func (s *Stream) take(n int) []string {
	chunk := make([]string, n)
	copy(chunk, s.queue)
	rest := copy(s.queue, s.queue[n:])
	s.queue = s.queue[:rest]
	return chunk
}

// fill performs one raw read and pushes everything it completes through
// decode, split, and filter. At end of source it drains the decoder and
// splitter, discards the footer residue, and releases the file.
func (s *Stream) fill() error {
	n, readErr := s.f.Read(s.buf)
	if n > 0 {
		text, err := s.dec.Feed(s.buf[:n])
		if err != nil {
			return s.at(err)
		}
		s.filter(s.split.push(text))
	}
	if readErr == nil {
		return nil
	}
	if readErr != io.EOF {
		return safeio.Classify("read", s.path, readErr)
	}

	text, err := s.dec.Finish()
	if err != nil {
		return s.at(err)
	}
	s.filter(s.split.push(text))
	s.filter(s.split.finish())

	// Whatever is still in the footer window is the real footer.
	s.footer = nil
	s.exhausted = true
	return s.release()
}

// filter runs each line through the fixed pipeline: header skip, footer
// window, empty-line skip, strip. Survivors are queued for chunk assembly.
func (s *Stream) filter(lines []string) {
	for _, line := range lines {
		if s.headerLeft > 0 {
			s.headerLeft--
			continue
		}
		if s.cfg.skipFooter > 0 {
			s.footer = append(s.footer, line)
			if len(s.footer) <= s.cfg.skipFooter {
				continue // held as a footer candidate
			}
			line = s.footer[0]
			s.footer = s.footer[1:]
		}
		// Emptiness is always judged on the stripped form, independent of
		// the strip flag.
		if s.cfg.skipEmpty && strings.TrimSpace(line) == "" {
			continue
		}
		if s.cfg.strip {
			line = strings.TrimSpace(line)
		}
		s.queue = append(s.queue, line)
	}
}

// fillAll is the full-buffer decode path: the whole source is read and
// decoded in one call, then split and filtered from the materialized text.
func (s *Stream) fillAll() error {
	raw, err := io.ReadAll(s.f)
	if err != nil {
		return safeio.Classify("read", s.path, err)
	}
	text, err := s.dec.Feed(raw)
	if err != nil {
		return s.at(err)
	}
	tail, err := s.dec.Finish()
	if err != nil {
		return s.at(err)
	}
	s.filter(s.split.push(text + tail))
	s.filter(s.split.finish())
	s.footer = nil
	s.exhausted = true
	return s.release()
}

// fail records a sticky error and releases the file.
func (s *Stream) fail(err error) {
	s.err = err
	s.release()
}

// release closes the file once.
func (s *Stream) release() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	if err := f.Close(); err != nil {
		return safeio.Classify("close", s.path, err)
	}
	return nil
}

// at stamps the stream's path onto a decode error raised by the
// path-agnostic decoder.
func (s *Stream) at(err error) error {
	var e *safeio.Error
	if errors.As(err, &e) && e.Path == "" {
		stamped := *e
		stamped.Path = s.path
		return &stamped
	}
	return err
}
