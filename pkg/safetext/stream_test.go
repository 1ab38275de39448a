package safetext

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_ChunkSizes(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1050; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	p := writeTestFile(t, "chunks.txt", []byte(b.String()))

	r, err := New(p, ChunkSize(MinChunkSize))
	require.NoError(t, err)

	s, err := r.Stream()
	require.NoError(t, err)
	defer s.Close()

	var sizes []int
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.NotEmpty(t, chunk, "a chunk must never be empty")
		sizes = append(sizes, len(chunk))
	}

	// 1050 lines at 100 per chunk: ten full chunks and a 50-line tail.
	require.Len(t, sizes, 11)
	for _, n := range sizes[:10] {
		assert.Equal(t, MinChunkSize, n)
	}
	assert.Equal(t, 50, sizes[10])
}

func TestStream_ChunkSizeFloorApplied(t *testing.T) {
	p := writeTestFile(t, "f.txt", []byte("a\nb"))

	r, err := New(p, ChunkSize(1), BufferSize(1))
	require.NoError(t, err)
	assert.Equal(t, MinChunkSize, r.cfg.chunkSize)
	assert.Equal(t, MinBufferSize, r.cfg.bufferSize)
}

// Filtering that empties a would-be chunk boundary must not emit an empty
// chunk; assembly keeps accumulating into the next chunk instead.
func TestStream_FilteredBoundaryNeverEmitsEmptyChunk(t *testing.T) {
	// 100 data lines, then 300 blank lines, then 100 more data lines.
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "data %d\n", i)
	}
	b.WriteString(strings.Repeat("\n", 300))
	for i := 100; i < 200; i++ {
		fmt.Fprintf(&b, "data %d\n", i)
	}
	p := writeTestFile(t, "gaps.txt", []byte(b.String()))

	r, err := New(p, SkipEmptyLines())
	require.NoError(t, err)

	s, err := r.Stream()
	require.NoError(t, err)
	defer s.Close()

	total := 0
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.NotEmpty(t, chunk)
		for _, ln := range chunk {
			require.NotEqual(t, "", ln)
		}
		total += len(chunk)
	}
	assert.Equal(t, 200, total)
}

// The blank-artifact regression: a buffer boundary falling exactly on a
// newline must not surface a spurious empty line, for any buffer size.
func TestStream_NoArtifactLinesAtAnyBufferSize(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,name,value\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "%d,Item%d,Value%d\n", i, i, i)
	}
	content := []byte(strings.TrimSuffix(b.String(), "\n"))
	p := writeTestFile(t, "clean.csv", content)

	for buf := 13; buf <= 64; buf += 7 {
		r := newSmallBufferReader(t, p, buf)
		lines, err := r.ReadLines()
		require.NoError(t, err, "buffer %d", buf)
		require.Len(t, lines, 401, "buffer %d", buf)
		for _, ln := range lines {
			require.NotEqual(t, "", ln, "buffer %d fabricated an empty line", buf)
		}
	}
}

func TestStream_FlattenEqualsReadLinesAcrossBufferSizes(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 600; i++ {
		fmt.Fprintf(&b, "%d,%s\r\n", i, strings.Repeat("X", 30))
	}
	p := writeTestFile(t, "crlf.csv", []byte(b.String()))

	reference, err := func() ([]string, error) {
		r, err := New(p)
		if err != nil {
			return nil, err
		}
		return r.ReadLines()
	}()
	require.NoError(t, err)
	require.Len(t, reference, 600)

	// Includes sizes that land a read boundary between CR and LF.
	for _, buf := range []int{4, 5, 7, 16, 33, 1024} {
		r := newSmallBufferReader(t, p, buf)
		assert.Equal(t, reference, flattenStream(t, r), "buffer %d", buf)
	}
}

func TestStream_EmptyFileYieldsNoChunks(t *testing.T) {
	p := writeTestFile(t, "empty.txt", nil)

	r, err := New(p)
	require.NoError(t, err)
	s, err := r.Stream()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestStream_CloseReleasesFile(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	p := writeTestFile(t, "big.txt", []byte(b.String()))

	r, err := New(p)
	require.NoError(t, err)
	s, err := r.Stream()
	require.NoError(t, err)

	_, err = s.Next()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Nil(t, s.f, "file handle must be released on Close")

	// Idempotent.
	require.NoError(t, s.Close())

	_, err = s.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestStream_ExhaustionReleasesFile(t *testing.T) {
	p := writeTestFile(t, "small.txt", []byte("a\nb\nc"))

	r, err := New(p)
	require.NoError(t, err)
	s, err := r.Stream()
	require.NoError(t, err)

	for {
		_, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Nil(t, s.f, "file handle must be released at exhaustion")
}

func TestStream_PreviewReleasesFileEarly(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	p := writeTestFile(t, "huge.txt", []byte(b.String()))

	r, err := New(p)
	require.NoError(t, err)

	lines, err := r.Preview(5)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	// The only handle Preview opened is closed, so the file can be
	// renamed out from under nothing.
	require.NoError(t, os.Rename(p, p+".moved"))
}

func TestStream_DecodeErrorReleasesFileAndSticks(t *testing.T) {
	// Enough valid content to fill several reads, then garbage.
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	b.WriteString("\xff\xfe")
	p := writeTestFile(t, "bad.txt", []byte(b.String()))

	r, err := New(p)
	require.NoError(t, err)
	s, err := r.Stream()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Next()
	require.Error(t, err)
	assert.Nil(t, s.f, "file handle must be released on failure")

	_, err2 := s.Next()
	assert.Equal(t, err, err2, "errors are sticky")
}

func TestStream_FooterWindowBoundedInStreaming(t *testing.T) {
	const footer = 3
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&b, "row %d\n", i)
	}
	p := writeTestFile(t, "footer.txt", []byte(strings.TrimSuffix(b.String(), "\n")))

	r, err := New(p, SkipFooterLines(footer))
	require.NoError(t, err)
	s, err := r.Stream()
	require.NoError(t, err)
	defer s.Close()

	total := 0
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, len(s.footer), footer,
			"footer window must stay bounded")
		total += len(chunk)
	}
	assert.Equal(t, 997, total)
}
