package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
)

// Run binds the listener, spawns the accept loop, and blocks until Stop
// is called or the listener errors. Mirrors the teacher's Serve/listen
// split, generalized to a blocking call plus an explicit Stop instead of
// a background-goroutine constructor.
func (s *Server) Run() error {
	lc := net.ListenConfig{Control: reuseAddrControl}
	l, err := lc.Listen(context.Background(), "tcp", fmt.Sprintf("%s:%d", s.addr, s.port))
	if err != nil {
		return err
	}
	s.listener = l

	if s.maskSigpipe {
		signal.Ignore(syscall.SIGPIPE)
	}

	s.running.Store(true)
	log.Infof("listening on %s", l.Addr())

	for s.running.Load() {
		conn, err := l.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.WithError(err).Warn("transient accept error")
			continue
		}
		s.spawn(func() { s.handle(conn) })
	}
	return nil
}
