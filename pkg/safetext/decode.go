package safetext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

// decodePath tags which decode strategy a Reader uses. It is fixed once at
// open time; there is no mid-stream renegotiation.
type decodePath int

const (
	// incrementalPath decodes chunk by chunk, carrying split multi-byte
	// sequences across raw reads.
	incrementalPath decodePath = iota

	// fullBufferPath materializes the whole file and decodes it in one
	// call. Selected for encodings whose decoding depends on stream-global
	// state (a byte-order mark read at the head) and for codecs that fail
	// the incremental-capability probe.
	fullBufferPath
)

// codec is a resolved text encoding. enc == nil selects the strict UTF-8
// fast path.
type codec struct {
	name string
	enc  encoding.Encoding
	path decodePath
}

// resolveCodec resolves an encoding name and probes its decode capability.
func resolveCodec(name string) (codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "utf-8", "utf8":
		return codec{name: "utf-8", path: incrementalPath}, nil
	case "utf-16", "utf16":
		// BOM-dependent: endianness is stream-global state, so this form
		// takes the full-buffer path. No BOM means little-endian.
		return codec{
			name: n,
			enc:  unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
			path: fullBufferPath,
		}, nil
	case "utf-16le", "utf16le", "utf-16-le":
		return codec{name: n, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), path: incrementalPath}, nil
	case "utf-16be", "utf16be", "utf-16-be":
		return codec{name: n, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), path: incrementalPath}, nil
	case "utf-32", "utf32":
		return codec{
			name: n,
			enc:  utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
			path: fullBufferPath,
		}, nil
	case "utf-32le", "utf32le", "utf-32-le":
		return codec{name: n, enc: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), path: incrementalPath}, nil
	case "utf-32be", "utf32be", "utf-32-be":
		return codec{name: n, enc: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), path: incrementalPath}, nil
	}

	if n == "latin-1" {
		// Common spelling that the WHATWG label index does not carry.
		n = "latin1"
	}
	enc, err := htmlindex.Get(n)
	if err != nil {
		return codec{}, safeio.Newf(safeio.KindParameter, "resolve_encoding", "",
			"unknown encoding %q", name)
	}
	path := incrementalPath
	if !probeIncremental(enc) {
		path = fullBufferPath
	}
	return codec{name: n, enc: enc, path: path}, nil
}

// probeIncremental checks, once at resolution time, that a codec's decoder
// buffers a partial multi-byte unit across feeds instead of misdecoding it.
// Codecs failing the probe are routed to the full-buffer path up front, so a
// decode failure is never discovered mid-stream with the source partially
// consumed.
func probeIncremental(enc encoding.Encoding) bool {
	const probe = "ab 世界 é\n"
	encoded, _, err := transform.Bytes(encoding.ReplaceUnsupported(enc.NewEncoder()), []byte(probe))
	if err != nil || len(encoded) < 2 {
		return false
	}

	whole := &xtextDecoder{tr: enc.NewDecoder()}
	ref, err := whole.Feed(encoded)
	if err != nil {
		return false
	}
	tail, err := whole.Finish()
	if err != nil {
		return false
	}
	ref += tail

	for cut := 1; cut < len(encoded); cut++ {
		d := &xtextDecoder{tr: enc.NewDecoder()}
		a, err := d.Feed(encoded[:cut])
		if err != nil {
			return false
		}
		b, err := d.Feed(encoded[cut:])
		if err != nil {
			return false
		}
		c, err := d.Finish()
		if err != nil {
			return false
		}
		if a+b+c != ref {
			return false
		}
	}
	return true
}

// newDecoder builds a fresh stateful decoder for one pass over a source.
func (c codec) newDecoder() textDecoder {
	if c.enc == nil {
		return &utf8Decoder{}
	}
	return &xtextDecoder{tr: c.enc.NewDecoder()}
}

// textDecoder consumes raw byte chunks and produces decoded text, carrying
// any incomplete trailing multi-byte sequence to the next call.
type textDecoder interface {
	// Feed decodes the next raw chunk. The returned text may be shorter
	// than the input if a trailing sequence is being carried.
	Feed(p []byte) (string, error)

	// Finish drains the carry at end of stream. A non-empty carry that
	// cannot form a complete character is a decoding error.
	Finish() (string, error)
}

// utf8Decoder is the strict UTF-8 fast path. Unlike the x/text UTF-8
// transformer it rejects invalid bytes instead of substituting U+FFFD,
// matching the declared-encoding contract.
type utf8Decoder struct {
	carry []byte
}

func (d *utf8Decoder) Feed(p []byte) (string, error) {
	var buf []byte
	if len(d.carry) > 0 {
		buf = append(d.carry, p...)
		d.carry = nil
	} else {
		buf = p
	}

	keep := incompleteUTF8Tail(buf)
	head := buf[:len(buf)-keep]
	if !utf8.Valid(head) {
		return "", safeio.New(safeio.KindDecoding, "decode", "",
			"invalid UTF-8 byte sequence")
	}
	if keep > 0 {
		d.carry = append([]byte(nil), buf[len(buf)-keep:]...)
	}
	return string(head), nil
}

func (d *utf8Decoder) Finish() (string, error) {
	if len(d.carry) > 0 {
		d.carry = nil
		return "", safeio.New(safeio.KindDecoding, "decode", "",
			"truncated UTF-8 sequence at end of input")
	}
	return "", nil
}

// incompleteUTF8Tail returns how many trailing bytes of b form the start of
// a multi-byte sequence whose continuation has not arrived yet. Malformed
// tails return 0 and are left for validation to reject.
func incompleteUTF8Tail(b []byte) int {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < 0x80 {
			return 0
		}
		if c >= 0xc0 {
			// Leader byte: incomplete only if it promises more bytes
			// than have arrived.
			if utf8ByteLen(c) > i {
				return i
			}
			return 0
		}
		// Continuation byte: keep scanning backwards for the leader.
	}
	return 0
}

// utf8ByteLen returns the encoded length promised by a UTF-8 leader byte,
// or 0 if the byte can never start a sequence.
func utf8ByteLen(c byte) int {
	switch {
	case c < 0x80:
		return 1
	case c >= 0xc2 && c <= 0xdf:
		return 2
	case c >= 0xe0 && c <= 0xef:
		return 3
	case c >= 0xf0 && c <= 0xf4:
		return 4
	default:
		return 0
	}
}

// xtextDecoder adapts an x/text transformer to the chunked decode contract.
// Bytes the transformer cannot consume yet (transform.ErrShortSrc) become
// the carry for the next Feed.
type xtextDecoder struct {
	tr    transform.Transformer
	carry []byte
}

func (d *xtextDecoder) Feed(p []byte) (string, error) {
	src := p
	if len(d.carry) > 0 {
		src = append(d.carry, p...)
		d.carry = nil
	}
	return d.transform(src, false)
}

func (d *xtextDecoder) Finish() (string, error) {
	src := d.carry
	d.carry = nil
	return d.transform(src, true)
}

func (d *xtextDecoder) transform(src []byte, atEOF bool) (string, error) {
	var out strings.Builder
	dst := make([]byte, 4096)
	for {
		nDst, nSrc, err := d.tr.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]
		switch err {
		case nil:
			if len(src) > 0 {
				// Transformer made no progress without reporting short
				// source; treat the remainder as carry.
				d.carry = append([]byte(nil), src...)
			}
			return out.String(), nil
		case transform.ErrShortDst:
			dst = make([]byte, len(dst)*2)
		case transform.ErrShortSrc:
			if atEOF {
				return "", safeio.New(safeio.KindDecoding, "decode", "",
					"truncated multi-byte sequence at end of input")
			}
			d.carry = append([]byte(nil), src...)
			return out.String(), nil
		default:
			return "", safeio.Wrap(safeio.KindDecoding, "decode", "", err)
		}
	}
}
