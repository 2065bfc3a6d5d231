package streambuf

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpfromtcp/internal/httperr"
)

func decodeAll(t *testing.T, wire string, strict bool) string {
	t.Helper()
	src := NewBytesStream([]byte(wire))
	dec := NewChunkedDecoder(src, New(), strict)

	var out []byte
	p := make([]byte, 4)
	for {
		n, err := dec.Read(p)
		out = append(out, p[:n]...)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	return string(out)
}

func TestChunkedDecoder_SimpleChunks(t *testing.T) {
	wire := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	assert.Equal(t, "hello world", decodeAll(t, wire, false))
}

func TestChunkedDecoder_ChunkExtensionsIgnored(t *testing.T) {
	wire := "5 foo=bar\r\nhello\r\n0\r\n\r\n"
	assert.Equal(t, "hello", decodeAll(t, wire, false))
}

func TestChunkedDecoder_ToleratesBlankLineAsTerminator(t *testing.T) {
	wire := "5\r\nhello\r\n\r\n"
	assert.Equal(t, "hello", decodeAll(t, wire, false))
}

func TestChunkedDecoder_StrictRejectsBlankLine(t *testing.T) {
	src := NewBytesStream([]byte("5\r\nhello\r\n\r\n"))
	dec := NewChunkedDecoder(src, New(), true)
	p := make([]byte, 16)

	_, err := dec.Read(p) // consumes "5\r\nhello\r\n"
	require.NoError(t, err)

	_, err = dec.Read(p) // next header line is blank -> strict rejects
	require.Error(t, err)
	var herr *httperr.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 400, herr.Code)
}

func TestChunkedDecoder_ShortChunkIsBadRequest(t *testing.T) {
	src := NewBytesStream([]byte("a\r\nhi\r\n")) // declares 10 bytes, sends 2
	dec := NewChunkedDecoder(src, New(), false)
	p := make([]byte, 16)

	_, err := dec.Read(p)
	require.Error(t, err)
	var herr *httperr.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 400, herr.Code)
}

func TestChunkedDecoder_MalformedSize(t *testing.T) {
	src := NewBytesStream([]byte("zz\r\nhello\r\n0\r\n\r\n"))
	dec := NewChunkedDecoder(src, New(), false)
	p := make([]byte, 16)

	_, err := dec.Read(p)
	require.Error(t, err)
	var herr *httperr.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 400, herr.Code)
}
