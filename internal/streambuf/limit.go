package streambuf

import (
	"io"

	"httpfromtcp/internal/httperr"
)

// limitStream reads exactly n bytes from src through buf, then reports
// io.EOF. It backs fixed Content-Length bodies.
type limitStream struct {
	src       Stream
	buf       *Buffer
	remaining int
}

// NewLimitStream wraps src so that exactly n bytes are readable before
// io.EOF, using buf to stage reads from src. A short underlying stream
// (connection closes before n bytes arrive) surfaces as a 400.
func NewLimitStream(src Stream, buf *Buffer, n int) Stream {
	return &limitStream{src: src, buf: buf, remaining: n}
}

func (l *limitStream) Close() error { return l.src.Close() }

func (l *limitStream) Read(dst []byte) (int, error) {
	if l.remaining == 0 {
		return 0, io.EOF
	}
	want := len(dst)
	if want > l.remaining {
		want = l.remaining
	}
	if err := ReadAtLeast(l.src, l.buf, want, func() error {
		return httperr.BadRequest("body is shorter than Content-Length")
	}); err != nil {
		return 0, err
	}
	n := copy(dst, l.buf.Bytes()[:want])
	l.buf.RemovePrefix(want)
	l.remaining -= want
	return n, nil
}
