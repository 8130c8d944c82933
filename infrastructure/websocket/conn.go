// Package websocket adapts nhooyr websocket connections to the relay sessions.
package websocket

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"nhooyr.io/websocket"
)

var _ contract.Conn = (*Conn)(nil)

// Conn is one accepted client. Outbound frames go through a bounded queue
// drained by a single writer goroutine, so Send never blocks the rooms.
type Conn struct {
	id           domain.ConnID
	ws           *websocket.Conn
	out          chan []byte
	open         atomic.Bool
	writeTimeout time.Duration
	pingInterval time.Duration
	log          *slog.Logger
}

func NewConn(id domain.ConnID, ws *websocket.Conn, bufferSize int,
	writeTimeout, pingInterval time.Duration, log *slog.Logger) *Conn {
	c := &Conn{
		id:           id,
		ws:           ws,
		out:          make(chan []byte, bufferSize),
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		log:          log.With("conn_id", id),
	}
	c.open.Store(true)
	return c
}

func (c *Conn) ID() domain.ConnID { return c.id }

func (c *Conn) IsOpen() bool { return c.open.Load() }

// Send queues payload for the writer. It is dropped when the connection is
// closed or when the client does not keep up.
func (c *Conn) Send(payload []byte) {
	if !c.IsOpen() {
		return
	}
	select {
	case c.out <- payload:
	default:
		c.log.Warn("Outbound queue full, message dropped", "size", len(payload))
	}
}

// WriteLoop writes queued frames as text and pings the client periodically.
// It returns when ctx is done or a write fails.
func (c *Conn) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.out:
			if err := c.write(ctx, payload); err != nil {
				c.log.Debug("Write failed, closing connection", "error", err)
				c.markClosed()
				return
			}
		case <-ticker.C:
			if err := c.ping(ctx); err != nil {
				c.log.Debug("Ping failed, closing connection", "error", err)
				c.markClosed()
				return
			}
		}
	}
}

func (c *Conn) write(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.ws.Write(ctx, websocket.MessageText, payload)
}

func (c *Conn) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.ws.Ping(ctx)
}

// markClosed stops accepting outbound frames.
func (c *Conn) markClosed() {
	c.open.Store(false)
}

// Close marks the connection closed and sends a close frame.
func (c *Conn) Close(status websocket.StatusCode, reason string) error {
	c.markClosed()
	return c.ws.Close(status, reason)
}
