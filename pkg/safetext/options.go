package safetext

const (
	// CanonicalNewline is the logical line break all input forms (LF, CR,
	// CRLF) are normalized to.
	CanonicalNewline = "\n"

	// DefaultEncoding is the text encoding assumed when none is configured.
	DefaultEncoding = "utf-8"

	// DefaultChunkSize is the number of logical lines per streamed chunk.
	DefaultChunkSize = 500

	// MinChunkSize is the smallest permitted chunk size. Smaller requests
	// are raised to this floor.
	MinChunkSize = 100

	// DefaultBufferSize is the raw read size in bytes.
	DefaultBufferSize = 32 * 1024

	// MinBufferSize is the smallest permitted raw read size. Smaller
	// requests are raised to this floor.
	MinBufferSize = 16 * 1024

	// DefaultLineCountThreshold is the file size, in bytes, at or below
	// which LineCount materializes the lines instead of streaming.
	DefaultLineCountThreshold = 8 << 20

	// MinLineCountThreshold is the smallest permitted line-count threshold.
	MinLineCountThreshold = 64 << 10
)

// config holds reader configuration, immutable for the lifetime of one
// read or stream operation.
type config struct {
	encoding   string
	strip      bool
	skipHeader int
	skipFooter int
	skipEmpty  bool
	chunkSize  int
	bufferSize int
}

func defaultConfig() config {
	return config{
		encoding:   DefaultEncoding,
		chunkSize:  DefaultChunkSize,
		bufferSize: DefaultBufferSize,
	}
}

// Option configures a Reader.
type Option func(*config)

// Encoding sets the text encoding by name ("utf-8", "utf-16", "latin-1",
// "shift_jis", ...). Unknown names are rejected by New with a parameter
// error.
//
// Default: "utf-8".
func Encoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}

// Strip returns each line with leading and trailing whitespace removed.
//
// Default: lines are returned as-is.
func Strip() Option {
	return func(c *config) {
		c.strip = true
	}
}

// SkipHeaderLines drops the first n logical lines of the file. Negative
// values are rejected by New with a parameter error.
//
// Default: 0.
func SkipHeaderLines(n int) Option {
	return func(c *config) {
		c.skipHeader = n
	}
}

// SkipFooterLines drops the last n logical lines of the file. The streaming
// path holds at most n lines of lookahead to do this, so memory stays
// bounded. Negative values are rejected by New with a parameter error.
//
// Default: 0.
func SkipFooterLines(n int) Option {
	return func(c *config) {
		c.skipFooter = n
	}
}

// SkipEmptyLines drops lines that are empty after whitespace stripping.
// The emptiness test always strips, whether or not Strip is set.
//
// Default: empty lines are kept.
func SkipEmptyLines() Option {
	return func(c *config) {
		c.skipEmpty = true
	}
}

// ChunkSize sets the maximum number of lines per streamed chunk. Values
// below MinChunkSize are silently raised to it.
//
// Default: DefaultChunkSize.
func ChunkSize(n int) Option {
	return func(c *config) {
		c.chunkSize = n
	}
}

// BufferSize sets the raw read size in bytes. Values below MinBufferSize
// are silently raised to it; below that floor the per-chunk decode and
// line-split overhead dominates the I/O.
//
// Default: DefaultBufferSize.
func BufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = n
	}
}
