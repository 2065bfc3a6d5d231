package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"httpfromtcp/internal/httperr"
	"httpfromtcp/internal/request"
	"httpfromtcp/internal/response"
	"httpfromtcp/internal/streambuf"
)

// handle runs the keep-alive connection loop for one accepted socket:
// one reusable buffer and stream for the connection's lifetime, per
// spec.md §4.8.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	buf := streambuf.New()
	stream := streambuf.NewFDStream(conn)
	writer := response.NewWriter(conn)

	for s.running.Load() {
		start := time.Now()
		if s.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}

		unit, err := request.ParseHead(stream, buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			// Any error surfaced before a complete request is read
			// closes the connection (spec.md §4.8, SPEC_FULL.md §10.3).
			s.writeErrAndClose(writer, conn, err, remote, "-", "-", start)
			return
		}

		resp, closeAfter := s.dispatch(unit, conn, stream, buf)

		if s.writeTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if werr := writer.Write(resp); werr != nil {
			log.WithFields(logFields(remote, unit.Method().String(), unit.RequestLine.Path, resp.Status, start)).
				WithError(werr).Debug("write failed, closing connection")
			return
		}
		log.WithFields(logFields(remote, unit.Method().String(), unit.RequestLine.Path, resp.Status, start)).Info("handled request")

		if closeAfter {
			return
		}
	}
}

func logFields(remote, method, path string, status int, start time.Time) map[string]interface{} {
	return map[string]interface{}{
		"remote_addr": remote,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration":    time.Since(start).String(),
	}
}

func (s *Server) writeErrAndClose(w *response.Writer, conn net.Conn, err error, remote, method, path string, start time.Time) {
	var herr *httperr.Error
	if !errors.As(err, &herr) {
		log.WithFields(logFields(remote, method, path, 500, start)).WithError(err).Warn("unclassified connection error")
		return
	}
	resp := response.Fail(herr.Code, herr.Msg)
	_ = w.Write(resp)
	log.WithFields(logFields(remote, method, path, herr.Code, start)).WithError(err).Debug("closing after parse error")
}

// dispatch implements spec.md §4.6 for one already-headers-parsed
// request: handler selection, Expect: 100-continue, decoder hooks, body
// read, handler invocation, encoder hooks. It always returns a response
// to write; closeAfter reports whether the connection must end after it.
func (s *Server) dispatch(unit *request.UnitRequest, conn net.Conn, stream streambuf.Stream, buf *streambuf.Buffer) (*response.Response, bool) {
	handler, rejectResp := s.selectHandler(unit)
	if rejectResp != nil {
		return rejectResp, true
	}

	if expect, ok := unit.Expect(); ok {
		if expect != "100-continue" {
			return response.Fail(417, fmt.Sprintf("unknown expectation %q", expect)), true
		}
		if _, err := io.WriteString(conn, "HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
			return response.Fail(500, "failed to write 100 Continue"), true
		}
	}

	current := unit
	var transform StreamTransformer
	for _, hook := range s.decodeHooks {
		newReq, t, ok := hook(current)
		if !ok {
			continue
		}
		if newReq != nil {
			current = newReq
		}
		if t != nil {
			transform = composeTransform(t, transform)
		}
	}

	bodyStream, err := current.BodyStream(s.strictChunks)
	if err != nil {
		return responseForErr(err), true
	}
	if transform != nil {
		bodyStream = transform(bodyStream)
	}

	maxBytes := s.maxBodyBytes
	if maxBytes <= 0 {
		maxBytes = -1
	}
	body, err := request.MaterializeBody(bodyStream, maxBytes)
	if err != nil {
		return responseForErr(err), true
	}

	fullReq := &request.Request{RequestLine: current.RequestLine, Headers: current.Headers, Body: body}

	resp, panicked := s.invokeHandler(handler, fullReq)
	if panicked {
		return resp, true
	}

	for _, hook := range s.encodeHooks {
		if r2 := hook(fullReq, resp); r2 != nil {
			resp = r2
		}
	}

	return resp, false
}

// invokeHandler runs the selected handler, converting a panic into a 500
// response and reporting it so the caller closes the connection
// afterward — spec.md §7's "handler exceptions" path, made terminal per
// SPEC_FULL.md §10.3.
func (s *Server) invokeHandler(h Handler, req *request.Request) (resp *response.Response, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			resp = response.Fail(500, fmt.Sprintf("internal server error: %v", r))
			panicked = true
		}
	}()
	resp = h(req)
	if resp == nil {
		resp = response.Fail(500, "handler returned no response")
	}
	return resp, false
}

// selectHandler scans pathHandlers most-recently-registered-first,
// returning either a bound Handler or a terminal rejection response from
// a failing accept predicate.
func (s *Server) selectHandler(unit *request.UnitRequest) (Handler, *response.Response) {
	for _, e := range s.pathHandlers {
		if e.method != nil && *e.method != unit.Method() {
			continue
		}
		params, ok := e.pattern.Match(unit.RequestLine.Path)
		if !ok {
			continue
		}
		if e.accept != nil {
			if err := e.accept(unit); err != nil {
				return nil, responseForErr(err)
			}
		}
		return e.builder(unit, params), nil
	}
	return s.fallback, nil
}

func composeTransform(outer, inner StreamTransformer) StreamTransformer {
	if inner == nil {
		return outer
	}
	return func(s streambuf.Stream) streambuf.Stream {
		return outer(inner(s))
	}
}

func responseForErr(err error) *response.Response {
	var herr *httperr.Error
	if errors.As(err, &herr) {
		return response.Fail(herr.Code, herr.Msg)
	}
	return response.Fail(500, err.Error())
}
