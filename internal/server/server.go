// Package server owns the listening socket of the development server.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joomcode/errorx"
	"github.com/sirupsen/logrus"
)

// DefaultPort is the port the server listens on unless told otherwise.
const DefaultPort = 8000

// Errors is the namespace of server lifecycle failures.
var Errors = errorx.NewNamespace("server")

// BindFailed is returned when the listening socket cannot be created, for
// example because the port is taken.
var BindFailed = Errors.NewType("bind_failed")

// Server serves an http.Handler on a bound TCP listener.
type Server struct {
	listener net.Listener
	server   *http.Server
	logger   logrus.FieldLogger
}

// Listen binds addr. No connection is accepted until Serve is called. If
// handler is a Decorator, its headers also go on the replies net/http sends
// without calling it.
func Listen(addr string, handler http.Handler, logger logrus.FieldLogger) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, BindFailed.Wrap(err, "unable to listen on %s", addr)
	}

	var header []byte
	if d, ok := handler.(Decorator); ok {
		header = wireHeader(d.FixedHeader())
	}

	return &Server{
		listener: &decoratingListener{Listener: l, header: header},
		server: &http.Server{
			Handler:     claim(handler),
			ConnContext: connContext,
			ConnState:   connState,

			// "OPTIONS *" is a preflight like any other.
			DisableGeneralOptionsHandler: true,
		},
		logger: logger,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Port returns the bound TCP port.
func (s *Server) Port() int {
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Serve accepts connections until Shutdown is called, in which case it
// returns nil.
func (s *Server) Serve() error {
	s.logger.WithField("addr", s.Addr().String()).Info("Accepting connections")

	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errorx.Decorate(err, "serve %s", s.Addr())
	}
	return nil
}

// Shutdown stops accepting, releases the socket and waits for in-flight
// requests until ctx is done. Requests still running then are dropped.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		s.server.Close()
		return errorx.Decorate(err, "graceful shutdown")
	}
	return nil
}

// ExecutableDir returns the directory containing the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errorx.Decorate(err, "unable to locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
