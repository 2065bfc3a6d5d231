// Package server implements the per-connection dispatch pipeline: path
// routing, Expect: 100-continue, decoder/encoder hooks, and the
// keep-alive connection loop that ties request parsing to response
// writing.
package server

import (
	"net"
	"sync/atomic"
	"time"

	"httpfromtcp/internal/method"
	"httpfromtcp/internal/request"
	"httpfromtcp/internal/response"
	"httpfromtcp/internal/route"
	"httpfromtcp/internal/streambuf"
)

// Handler produces a response for a fully-materialized, string-bodied
// request.
type Handler func(req *request.Request) *response.Response

// Builder binds a path handler's matched pattern parameters into a
// concrete Handler for this one request.
type Builder func(unit *request.UnitRequest, params route.Params) Handler

// Accept inspects the unit-bodied (pre-body) request and may reject the
// request with a status before the builder ever runs.
type Accept func(unit *request.UnitRequest) error

// StreamTransformer wraps a body stream with an additional layer, e.g. a
// decompressor sitting in front of the raw Content-Length/chunked stream.
type StreamTransformer func(streambuf.Stream) streambuf.Stream

// DecodeHook observes the unit-bodied request before the body is read
// and may replace the request and/or contribute a stream transformer. ok
// is false when the hook declines to act on this request.
type DecodeHook func(unit *request.UnitRequest) (newReq *request.UnitRequest, transform StreamTransformer, ok bool)

// EncodeHook observes the materialized request and the response a
// handler (or the fallback) produced, and may replace it.
type EncodeHook func(req *request.Request, resp *response.Response) *response.Response

// pathEntry is one registered path handler.
type pathEntry struct {
	method  *method.Method
	pattern *route.Pattern
	builder Builder
	accept  Accept
}

// Server owns bind address/port, the spawn-a-task callback, the
// registration lists, and a running flag — frozen once Run starts, per
// spec.md §3.
type Server struct {
	addr string
	port int

	spawn        func(func())
	maskSigpipe  bool
	strictChunks bool
	maxBodyBytes int
	readTimeout  time.Duration
	writeTimeout time.Duration

	fallback     Handler
	pathHandlers []pathEntry
	decodeHooks  []DecodeHook
	encodeHooks  []EncodeHook

	running  atomic.Bool
	listener net.Listener
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithSpawner overrides the per-connection task spawner. The default
// spawns an ordinary goroutine.
func WithSpawner(spawn func(func())) Option {
	return func(s *Server) { s.spawn = spawn }
}

// WithMaskSigpipe controls whether SIGPIPE is masked at Run. Default true.
func WithMaskSigpipe(mask bool) Option {
	return func(s *Server) { s.maskSigpipe = mask }
}

// WithMaxBodyBytes caps a materialized request body. A value <= 0 means
// unbounded. Default unbounded.
func WithMaxBodyBytes(n int) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithStrictChunks rejects a blank line where a chunk header is
// expected, instead of tolerating it as a zero-size chunk. Default false.
func WithStrictChunks(strict bool) Option {
	return func(s *Server) { s.strictChunks = strict }
}

// WithReadTimeout sets a per-request read deadline on the socket. Zero
// disables it (the default): timeouts are not part of the core contract
// and are layered on here only as an orthogonal option, per spec.md §5.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout sets a per-response write deadline on the socket.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// New constructs a Server bound to addr:port. It does not listen until
// Run is called.
func New(addr string, port int, opts ...Option) *Server {
	s := &Server{
		addr:        addr,
		port:        port,
		spawn:       func(f func()) { go f() },
		maskSigpipe: true,
		fallback:    defaultFallback,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultFallback(req *request.Request) *response.Response {
	return response.Fail(404, "not found")
}

// SetFallbackHandler replaces the handler used when no path handler
// matches.
func (s *Server) SetFallbackHandler(h Handler) {
	s.fallback = h
}

// AddPathHandler registers a path handler. m may be nil to match any
// method. Registrations prepend, so the most-recently-added entry is
// tried first (spec.md §4.6).
func (s *Server) AddPathHandler(m *method.Method, pattern string, builder Builder, accept Accept) {
	entry := pathEntry{
		method:  m,
		pattern: route.Compile(pattern),
		builder: builder,
		accept:  accept,
	}
	s.pathHandlers = append([]pathEntry{entry}, s.pathHandlers...)
}

// AddDecodeRequestHook registers a request-decoder hook. Hooks are
// folded in registration order, so the first-registered hook wraps the
// stream closest to the raw socket.
func (s *Server) AddDecodeRequestHook(hook DecodeHook) {
	s.decodeHooks = append(s.decodeHooks, hook)
}

// AddEncodeResponseHook registers a response-encoder hook, folded in
// registration order.
func (s *Server) AddEncodeResponseHook(hook EncodeHook) {
	s.encodeHooks = append(s.encodeHooks, hook)
}

// Stop clears the running flag. In-flight connection workers observe it
// between requests and exit; in-flight reads are not interrupted.
func (s *Server) Stop() {
	s.running.Store(false)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
