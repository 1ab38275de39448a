package safetext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/jim-schilling/splurge-safe-io/pkg/safeio"
)

func TestResolveCodec(t *testing.T) {
	tests := []struct {
		name string
		enc  string
		path decodePath
	}{
		{"default utf-8", "", incrementalPath},
		{"utf-8", "utf-8", incrementalPath},
		{"utf8 alias", "UTF8", incrementalPath},
		{"utf-16le", "utf-16le", incrementalPath},
		{"utf-16be", "utf-16be", incrementalPath},
		{"latin-1", "latin1", incrementalPath},
		{"latin-1 spelled out", "latin-1", incrementalPath},
		{"shift_jis", "shift_jis", incrementalPath},
		{"utf-16 bom dependent", "utf-16", fullBufferPath},
		{"utf-32 bom dependent", "utf-32", fullBufferPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cdc, err := resolveCodec(tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.path, cdc.path)
		})
	}
}

func TestProbeIncremental_AcceptsWellBehavedCodecs(t *testing.T) {
	assert.True(t, probeIncremental(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)))
	assert.True(t, probeIncremental(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)))
}

func TestResolveCodec_UnknownName(t *testing.T) {
	_, err := resolveCodec("klingon-8")
	require.Error(t, err)
	assert.True(t, errors.Is(err, safeio.ErrParameter))
}

func TestUTF8Decoder_CarryAcrossFeeds(t *testing.T) {
	// "世" is 3 bytes; split it at every interior position.
	raw := []byte("ab\xe4\xb8\x96cd")
	for cut := 1; cut < len(raw); cut++ {
		d := &utf8Decoder{}
		out1, err := d.Feed(raw[:cut])
		require.NoError(t, err, "cut %d", cut)
		out2, err := d.Feed(raw[cut:])
		require.NoError(t, err, "cut %d", cut)
		out3, err := d.Finish()
		require.NoError(t, err, "cut %d", cut)
		assert.Equal(t, "ab世cd", out1+out2+out3, "cut %d", cut)
	}
}

func TestUTF8Decoder_FourByteRuneSplit(t *testing.T) {
	raw := []byte("x\xf0\x9f\x8c\x8dy") // 🌍
	for cut := 1; cut < len(raw); cut++ {
		d := &utf8Decoder{}
		out1, err := d.Feed(raw[:cut])
		require.NoError(t, err)
		out2, err := d.Feed(raw[cut:])
		require.NoError(t, err)
		tail, err := d.Finish()
		require.NoError(t, err)
		assert.Equal(t, "x🌍y", out1+out2+tail, "cut %d", cut)
	}
}

func TestUTF8Decoder_InvalidBytes(t *testing.T) {
	d := &utf8Decoder{}
	_, err := d.Feed([]byte("valid\xff\xfeinvalid"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, safeio.ErrDecoding))
}

func TestUTF8Decoder_TruncatedTailAtEOF(t *testing.T) {
	d := &utf8Decoder{}
	out, err := d.Feed([]byte("ok\xe4\xb8")) // first 2 bytes of 世
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = d.Finish()
	require.Error(t, err)
	assert.True(t, errors.Is(err, safeio.ErrDecoding))
}

func TestUTF8Decoder_MalformedTailRejectedNotCarried(t *testing.T) {
	// A continuation byte with no leader is invalid immediately, not a
	// carry candidate.
	d := &utf8Decoder{}
	_, err := d.Feed([]byte("ab\x80"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, safeio.ErrDecoding))
}

func TestXTextDecoder_UTF16LESplitUnit(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	encoded, err := enc.NewEncoder().Bytes([]byte("héllo\n世"))
	require.NoError(t, err)

	for cut := 1; cut < len(encoded); cut++ {
		d := &xtextDecoder{tr: enc.NewDecoder()}
		out1, err := d.Feed(encoded[:cut])
		require.NoError(t, err, "cut %d", cut)
		out2, err := d.Feed(encoded[cut:])
		require.NoError(t, err, "cut %d", cut)
		out3, err := d.Finish()
		require.NoError(t, err, "cut %d", cut)
		assert.Equal(t, "héllo\n世", out1+out2+out3, "cut %d", cut)
	}
}

func TestXTextDecoder_FinishWithEmptyCarry(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	encoded, err := enc.NewEncoder().Bytes([]byte("hi"))
	require.NoError(t, err)

	d := &xtextDecoder{tr: enc.NewDecoder()}
	out, err := d.Feed(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	tail, err := d.Finish()
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestXTextDecoder_Latin1(t *testing.T) {
	cdc, err := resolveCodec("latin1")
	require.NoError(t, err)

	d := cdc.newDecoder()
	out, err := d.Feed([]byte{'c', 'a', 'f', 0xe9}) // café in latin-1
	require.NoError(t, err)
	tail, err := d.Finish()
	require.NoError(t, err)
	assert.Equal(t, "café", out+tail)
}
