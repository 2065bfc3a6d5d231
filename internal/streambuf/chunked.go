package streambuf

import (
	"io"
	"strconv"
	"strings"

	"httpfromtcp/internal/httperr"
)

// ChunkedDecoder adapts an HTTP/1.1 chunked-encoded Stream into an
// ordinary Stream of raw payload bytes. Read refills from the
// underlying Stream at chunk boundaries, parsing a "SIZE[ ext]\r\n"
// header line before each chunk's payload, and returns io.EOF once the
// zero-size terminator chunk is consumed. Trailers are not supported
// (Non-goal): the terminator's trailing CRLF is consumed and discarded.
type ChunkedDecoder struct {
	src       Stream
	buf       *Buffer
	remaining int
	done      bool
	strict    bool
}

// NewChunkedDecoder wraps src, scanning chunk-size lines and payloads
// through buf. buf should be the same Buffer the connection uses for
// everything else on this connection: any bytes the decoder reads ahead
// of a chunk boundary (e.g. the start of whatever follows the body) must
// stay visible to the next read on this connection rather than being
// stranded in a decoder-private buffer. When strict is true, a blank
// line where a chunk-size header is expected is rejected instead of
// tolerated as a zero-size chunk.
func NewChunkedDecoder(src Stream, buf *Buffer, strict bool) *ChunkedDecoder {
	return &ChunkedDecoder{src: src, buf: buf, strict: strict}
}

func (c *ChunkedDecoder) Close() error { return c.src.Close() }

func (c *ChunkedDecoder) Read(dst []byte) (int, error) {
	if c.done {
		return 0, io.EOF
	}
	if c.remaining == 0 {
		if err := c.nextChunk(); err != nil {
			return 0, err
		}
		if c.done {
			return 0, io.EOF
		}
	}

	want := len(dst)
	if want > c.remaining {
		want = c.remaining
	}
	if want == 0 {
		return 0, nil
	}

	if err := ReadAtLeast(c.src, c.buf, want, c.tooShort); err != nil {
		return 0, err
	}
	n := copy(dst, c.buf.Bytes()[:want])
	c.buf.RemovePrefix(want)
	c.remaining -= want

	if c.remaining == 0 {
		if err := c.consumeTerminatorCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *ChunkedDecoder) tooShort() error {
	return httperr.BadRequest("chunk is too short")
}

// nextChunk reads and parses one "SIZE[ extension]\r\n" header line.
func (c *ChunkedDecoder) nextChunk() error {
	line, ok, err := ReadLine(c.src, c.buf)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.BadRequest("chunk is too short")
	}
	line = strings.TrimSuffix(line, "\r")

	if line == "" {
		// A blank line where a chunk header is expected is tolerated as a
		// size-0 (terminating) chunk unless strict mode is on.
		if c.strict {
			return httperr.BadRequest("malformed chunk header")
		}
		c.done = true
		return nil
	}

	sizeTok := line
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		sizeTok = line[:idx] // chunk extensions are tolerated and ignored
	}

	size, err := strconv.ParseUint(sizeTok, 16, 32)
	if err != nil {
		return httperr.Newf(400, "malformed chunk size %q", sizeTok)
	}

	if size == 0 {
		if err := c.consumeTerminatorCRLF(); err != nil {
			return err
		}
		c.done = true
		return nil
	}
	c.remaining = int(size)
	return nil
}

// consumeTerminatorCRLF reads the line terminator that follows a chunk's
// payload bytes, or the blank line that follows the zero-size chunk.
func (c *ChunkedDecoder) consumeTerminatorCRLF() error {
	line, ok, err := ReadLine(c.src, c.buf)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.BadRequest("chunk is too short")
	}
	if line != "\r" && line != "" {
		return httperr.BadRequest("malformed chunk terminator")
	}
	return nil
}
