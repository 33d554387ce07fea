package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"sync/atomic"
)

// Decorator is implemented by handlers that put a fixed set of headers on
// every response. The server copies that set onto the error replies net/http
// writes on its own, such as the 400 for a malformed request line.
type Decorator interface {
	FixedHeader() http.Header
}

type connContextKey struct{}

// trackedConn marks when a handler owns the outgoing bytes. Anything written
// while it does not is a reply net/http produced without the handler.
type trackedConn struct {
	net.Conn
	header  []byte
	serving atomic.Bool
}

var (
	responsePrefix = []byte("HTTP/1.")
	headerEnd      = []byte("\r\n\r\n")
)

func (c *trackedConn) Write(p []byte) (int, error) {
	if c.header == nil || c.serving.Load() || !bytes.HasPrefix(p, responsePrefix) {
		return c.Conn.Write(p)
	}
	end := bytes.Index(p, headerEnd)
	if end < 0 {
		return c.Conn.Write(p)
	}

	decorated := make([]byte, 0, len(p)+len(c.header))
	decorated = append(decorated, p[:end+2]...)
	decorated = append(decorated, c.header...)
	decorated = append(decorated, p[end+2:]...)
	if _, err := c.Conn.Write(decorated); err != nil {
		return 0, err
	}
	return len(p), nil
}

type decoratingListener struct {
	net.Listener
	header []byte
}

func (l *decoratingListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &trackedConn{Conn: c, header: l.header}, nil
}

// wireHeader renders h as raw header lines, or nil when h is empty.
func wireHeader(h http.Header) []byte {
	if len(h) == 0 {
		return nil
	}
	var buf bytes.Buffer
	h.Write(&buf)
	return buf.Bytes()
}

func connContext(ctx context.Context, c net.Conn) context.Context {
	return context.WithValue(ctx, connContextKey{}, c)
}

// connState hands the connection back once the previous response has been
// flushed, so the next error reply can be decorated.
func connState(c net.Conn, state http.ConnState) {
	if cc, ok := c.(*trackedConn); ok && state == http.StateIdle {
		cc.serving.Store(false)
	}
}

// claim marks the request's connection as owned by the handler.
func claim(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := r.Context().Value(connContextKey{}).(*trackedConn); ok {
			c.serving.Store(true)
		}
		next.ServeHTTP(w, r)
	})
}
