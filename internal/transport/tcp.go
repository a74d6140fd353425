package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// TCPConn is a Conn over a plain TCP stream.
type TCPConn struct {
	conn      net.Conn
	opts      Options
	closeOnce sync.Once
	closeErr  error
}

// DialTCP opens a TCP connection to addr (host:port).
func DialTCP(ctx context.Context, addr string, opts Options) (*TCPConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	return NewTCPConn(conn, opts), nil
}

// NewTCPConn wraps an established stream.
func NewTCPConn(conn net.Conn, opts Options) *TCPConn {
	return &TCPConn{conn: conn, opts: opts}
}

// watch makes a blocked read or write return once ctx is done.
func (c *TCPConn) watch(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Now())
	})
}

func (c *TCPConn) Send(ctx context.Context, data []byte) error {
	stop := c.watch(ctx)
	defer stop()
	for len(data) > 0 {
		n, err := c.conn.Write(data)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("tcp write: %w", err)
		}
		data = data[n:]
	}
	return nil
}

func (c *TCPConn) Receive(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The deadline must be set before the watcher can move it to now.
	if c.opts.ReadTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}
	stop := c.watch(ctx)
	defer stop()

	buf := make([]byte, c.opts.readBufferSize())
	n, err := c.conn.Read(buf)
	if n > 0 {
		// Hand over what arrived; a pending error resurfaces on the next call.
		return buf[:n], nil
	}
	switch {
	case err == nil:
		return nil, io.ErrNoProgress
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}
	return nil, fmt.Errorf("tcp read: %w", err)
}

func (c *TCPConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
