// Package transport opens the byte stream the bot talks to the game server
// over. Both implementations hand back raw chunks; message boundaries are the
// caller's concern.
package transport

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Conn is a bidirectional byte stream.
type Conn interface {
	// Send writes all of data.
	Send(ctx context.Context, data []byte) error

	// Receive blocks until at least one byte arrives. It returns io.EOF once
	// the peer has closed the stream.
	Receive(ctx context.Context) ([]byte, error)

	// Close releases the connection. Safe to call more than once.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}

// Options tune a dialed connection. The zero value is usable.
type Options struct {
	// DialTimeout bounds connection setup. 0 means no limit beyond ctx.
	DialTimeout time.Duration
	// ReadTimeout bounds every Receive. 0 waits forever.
	ReadTimeout time.Duration
	// ReadBufferSize is the largest chunk a TCP Receive returns.
	ReadBufferSize int
}

const defaultReadBufferSize = 1024

func (o Options) readBufferSize() int {
	if o.ReadBufferSize <= 0 {
		return defaultReadBufferSize
	}
	return o.ReadBufferSize
}

// Dial connects to addr. ws:// and wss:// URLs use WebSocket, anything else
// is treated as a host:port for TCP.
func Dial(ctx context.Context, addr string, opts Options) (Conn, error) {
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	switch {
	case strings.HasPrefix(addr, "ws://"), strings.HasPrefix(addr, "wss://"):
		conn, err := DialWebSocket(ctx, addr, opts)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case strings.Contains(addr, "://"):
		return nil, fmt.Errorf("unsupported address scheme in %q", addr)
	}
	conn, err := DialTCP(ctx, addr, opts)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
