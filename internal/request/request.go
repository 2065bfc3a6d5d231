// Package request parses an HTTP/1.1 request off a streambuf.Stream: the
// request line, the header block, and — once a handler has been chosen
// and any decoder hooks have run — the body, by Content-Length or by
// chunked transfer encoding.
package request

import (
	"io"
	"strconv"
	"strings"

	"httpfromtcp/internal/headers"
	"httpfromtcp/internal/httperr"
	"httpfromtcp/internal/method"
	"httpfromtcp/internal/streambuf"
)

// maxStartLine bounds the request line, matching the header-line cap. The
// length is checked once the whole line has been read; the connection
// buffer is not bounded while the line is still unterminated.
const maxStartLine = 8 * 1024

// RequestLine holds the three components of "METHOD SP PATH SP HTTP/1.1".
type RequestLine struct {
	Method      method.Method
	Path        string // raw request-target, not URL-decoded
	HTTPVersion string
}

// UnitRequest is a request whose start-line and headers are parsed but
// whose body has not yet been read. The raw stream and the connection's
// shared buffer are held internally so the body can be framed (by
// Content-Length or chunked) once a handler and any decoder hooks have
// had a chance to run.
type UnitRequest struct {
	RequestLine RequestLine
	Headers     *headers.Headers

	stream streambuf.Stream
	buf    *streambuf.Buffer
}

// Method is a convenience accessor mirroring UnitRequest.RequestLine.Method.
func (r *UnitRequest) Method() method.Method { return r.RequestLine.Method }

// Request is a fully materialized, string-bodied request, handed to
// exactly one handler.
type Request struct {
	RequestLine RequestLine
	Headers     *headers.Headers
	Body        []byte
}

// Method is a convenience accessor mirroring Request.RequestLine.Method.
func (r *Request) Method() method.Method { return r.RequestLine.Method }

// Path is a convenience accessor mirroring Request.RequestLine.Path.
func (r *Request) Path() string { return r.RequestLine.Path }

// ParseHead reads one request's start-line and headers from s using buf.
//
// Two error shapes are returned:
//   - io.EOF: the connection ended (cleanly, or mid-line/mid-header)
//     before a complete request arrived. The caller should close the
//     connection silently — there is nothing sane to respond with.
//   - *httperr.Error: the bytes that did arrive are malformed. The
//     caller should write the carried status and close.
//
// Any other error is a transport failure and should also result in a
// silent close.
func ParseHead(s streambuf.Stream, buf *streambuf.Buffer) (*UnitRequest, error) {
	line, ok, err := streambuf.ReadLine(s, buf)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	if len(line) > maxStartLine {
		return nil, httperr.BadRequest("Invalid request line")
	}

	rl, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	h := headers.New()
	for {
		hline, ok, err := streambuf.ReadLine(s, buf)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if hline == "\r" || hline == "" {
			break // blank line: end of header block
		}
		if err := headers.ParseLine(h, []byte(strings.TrimSuffix(hline, "\r"))); err != nil {
			return nil, err
		}
	}

	return &UnitRequest{RequestLine: *rl, Headers: h, stream: s, buf: buf}, nil
}

// parseRequestLine parses "METHOD SP PATH SP HTTP/1.1" (trailing \r
// already included in line, stripped here). Any deviation — wrong token
// count, wrong version, unknown method, empty target — is a 400.
func parseRequestLine(line string) (*RequestLine, error) {
	line = strings.TrimSuffix(line, "\r")
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, httperr.BadRequest("Invalid request line")
	}

	rawMethod, target, version := parts[0], parts[1], parts[2]
	if version != "HTTP/1.1" {
		return nil, httperr.BadRequest("Invalid request line")
	}
	if target == "" {
		return nil, httperr.BadRequest("Invalid request line")
	}

	m, err := method.Parse(rawMethod)
	if err != nil {
		return nil, httperr.Newf(400, "unknown method %q", rawMethod)
	}

	return &RequestLine{Method: m, Path: target, HTTPVersion: "1.1"}, nil
}

// BodyStream selects the body's framing — fixed-length via
// Content-Length, or chunked via Transfer-Encoding — and returns a
// Stream of raw (not yet size-materialized) body bytes. strictChunks
// controls whether a blank line in place of a chunk-size header is
// rejected (see streambuf.NewChunkedDecoder).
//
// Absent both headers, the body is empty. A malformed Content-Length is
// a 400; any Transfer-Encoding other than "chunked" is a 500 ("cannot
// handle transfer encoding"), per spec.
func (r *UnitRequest) BodyStream(strictChunks bool) (streambuf.Stream, error) {
	if te, ok := r.Headers.Get("Transfer-Encoding"); ok {
		te = strings.TrimSpace(te)
		if strings.EqualFold(te, "chunked") {
			return streambuf.NewChunkedDecoder(r.stream, r.buf, strictChunks), nil
		}
		return nil, httperr.New(500, "cannot handle transfer encoding")
	}

	cl, ok := r.Headers.Get("Content-Length")
	if !ok {
		return streambuf.NewBytesStream(nil), nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
	if err != nil || n < 0 {
		return nil, httperr.Newf(400, "bad Content-Length %q", cl)
	}
	return streambuf.NewLimitStream(r.stream, r.buf, int(n)), nil
}

// Expect returns the trimmed value of the Expect header, if present.
func (r *UnitRequest) Expect() (string, bool) {
	v, ok := r.Headers.Get("Expect")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// readChunkSize is 4KiB, the same value as the response writer's
// outbound chunkSize (response.go).
const readChunkSize = 4096

// MaterializeBody drains body into memory, failing with a 413 if the
// accumulated size ever exceeds maxBytes. A negative maxBytes disables
// the cap.
func MaterializeBody(body streambuf.Stream, maxBytes int) ([]byte, error) {
	var out []byte
	tmp := make([]byte, readChunkSize)
	for {
		n, err := body.Read(tmp)
		if n > 0 {
			out = append(out, tmp[:n]...)
			if maxBytes >= 0 && len(out) > maxBytes {
				return nil, httperr.Newf(413, "body exceeds %d byte cap (got at least %d bytes)", maxBytes, len(out))
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}
