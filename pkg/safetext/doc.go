// Package safetext implements memory-bounded reading and deterministic
// writing of text files as newline-normalized logical lines.
//
// A logical line is one newline-delimited record of the decoded text with
// its terminating break removed; LF, CR, and CRLF all count as the same
// break. The reader decodes incrementally across raw-read boundaries, so a
// multi-byte character split between two reads decodes correctly and a
// read boundary can never fabricate a line that does not exist in the
// source.
//
// # Reading
//
// Whole-file:
//
//	r, err := safetext.New(path, safetext.Strip())
//	lines, err := r.ReadLines()
//
// Streaming, with bounded memory:
//
//	r, err := safetext.New(path, safetext.ChunkSize(500))
//	s, err := r.Stream()
//	defer s.Close()
//	for {
//	    chunk, err := s.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    // process chunk ([]string, never empty)
//	}
//
// Filters apply in a fixed order: header-count skip, footer-count skip,
// empty-line skip, whitespace strip. Footer skipping in the streaming path
// uses a bounded lookahead window of exactly the footer size, so memory
// stays bounded no matter how large the file is.
//
// # Writing
//
//	w, err := safetext.NewWriter(path)
//	defer w.Abort()
//	err = w.Write("First line\r\nSecond line")
//	err = w.Close()
//
// Writes are staged in a same-directory temporary file and renamed into
// place on Close, so a reader never observes a half-written destination.
// Line breaks are normalized to "\n" on the way in.
//
// # Encodings
//
// Encodings are named ("utf-8", "utf-16le", "latin-1", "shift_jis", ...)
// and resolved through golang.org/x/text. Most decode incrementally;
// byte-order-mark dependent forms ("utf-16", "utf-32") are decoded from a
// single full buffer instead, selected deterministically at open time.
//
// # Errors
//
// All failures are safeio errors; branch on them with errors.Is and the
// safeio sentinels (safeio.ErrNotFound, safeio.ErrDecoding, ...). The
// originating low-level error stays on the chain.
package safetext
