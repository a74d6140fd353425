package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"nhooyr.io/websocket"
)

// WebSocketConn is a Conn over a WebSocket. Each frame's payload is treated
// as the next chunk of the stream, so lines may span frames.
type WebSocketConn struct {
	conn      *websocket.Conn
	addr      string
	opts      Options
	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket opens a WebSocket connection to url (ws:// or wss://).
func DialWebSocket(ctx context.Context, url string, opts Options) (*WebSocketConn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}
	return &WebSocketConn{conn: conn, addr: url, opts: opts}, nil
}

func (c *WebSocketConn) Send(ctx context.Context, data []byte) error {
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

func (c *WebSocketConn) Receive(ctx context.Context) ([]byte, error) {
	if c.opts.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ReadTimeout)
		defer cancel()
	}
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("websocket read: %w", err)
		}
		// An empty frame is not a close; wait for real data.
		if len(data) > 0 {
			return data, nil
		}
	}
}

func (c *WebSocketConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close(websocket.StatusNormalClosure, "")
	})
	return c.closeErr
}

func (c *WebSocketConn) RemoteAddr() string {
	return c.addr
}
