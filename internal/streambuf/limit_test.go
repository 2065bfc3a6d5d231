package streambuf

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpfromtcp/internal/httperr"
)

func TestLimitStream_ReadsExactlyN(t *testing.T) {
	src := NewBytesStream([]byte("hello world, extra bytes past the limit"))
	buf := New()
	l := NewLimitStream(src, buf, 11)

	var out []byte
	p := make([]byte, 4)
	for {
		n, err := l.Read(p)
		out = append(out, p[:n]...)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	assert.Equal(t, "hello world", string(out))
}

func TestLimitStream_ShortBodyIsBadRequest(t *testing.T) {
	src := NewBytesStream([]byte("short"))
	buf := New()
	l := NewLimitStream(src, buf, 100)

	p := make([]byte, 100)
	_, err := l.Read(p)
	require.Error(t, err)

	var herr *httperr.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 400, herr.Code)
}
