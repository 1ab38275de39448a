package safeio

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_SentinelMatching(t *testing.T) {
	err := New(KindNotFound, "open", "/tmp/nope.txt", "")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrPermission))
	assert.False(t, errors.Is(err, ErrUnknown))
}

func TestError_PreservesCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/tmp/x", Err: fs.ErrPermission}
	err := Wrap(KindPermission, "read", "/tmp/x", cause)

	var pathErr *fs.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, cause, pathErr)
	assert.True(t, errors.Is(err, ErrPermission))
}

func TestError_Message(t *testing.T) {
	err := Newf(KindParameter, "line_count", "", "threshold %d below minimum", 10)
	assert.Contains(t, err.Error(), "parameter error")
	assert.Contains(t, err.Error(), "threshold 10 below minimum")
}

func TestClassify_OSErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not exist", fs.ErrNotExist, KindNotFound},
		{"permission", fs.ErrPermission, KindPermission},
		{"exists", fs.ErrExist, KindExists},
		{"wrapped path error", &fs.PathError{Op: "read", Path: "/x", Err: errors.New("i/o error")}, KindOS},
		{"anything else", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("op", "/x", tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.True(t, errors.Is(got, tt.err), "cause must stay on the chain")
		})
	}
}

func TestClassify_RealOpenFailure(t *testing.T) {
	_, err := os.Open("/definitely/does/not/exist/anywhere.txt")
	require.Error(t, err)

	classified := Classify("open", "/definitely/does/not/exist/anywhere.txt", err)
	assert.Equal(t, KindNotFound, classified.Kind)
	assert.True(t, errors.Is(classified, ErrNotFound))
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := New(KindDecoding, "decode", "/x", "bad byte")
	got := Classify("read", "/y", orig)
	assert.Same(t, orig, got)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDecoding, KindOf(New(KindDecoding, "decode", "", "")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
