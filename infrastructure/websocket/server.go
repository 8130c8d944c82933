package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/services"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// ConnectionCounter tracks open connections.
type ConnectionCounter interface {
	IncrConnections()
	DecrConnections()
}

type Options struct {
	OriginPatterns []string
	ReadLimit      int64
	BufferSize     int
	WriteTimeout   time.Duration
	PingInterval   time.Duration
}

// RelayServer upgrades HTTP requests to websocket connections and pumps
// their frames into a relay session.
type RelayServer struct {
	log     *slog.Logger
	service services.IRelayService
	counter ConnectionCounter
	opts    Options
}

func NewRelayServer(log *slog.Logger, service services.IRelayService, counter ConnectionCounter, opts Options) *RelayServer {
	return &RelayServer{log: log, service: service, counter: counter, opts: opts}
}

func (s *RelayServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  s.opts.OriginPatterns,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		s.log.Warn("Websocket upgrade rejected", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	ws.SetReadLimit(s.opts.ReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := NewConn(domain.ConnID(uuid.NewString()), ws, s.opts.BufferSize,
		s.opts.WriteTimeout, s.opts.PingInterval, s.log)
	session := s.service.Open(conn)
	s.counter.IncrConnections()
	s.log.Info("Connection opened", "conn_id", conn.ID(), "remote_addr", r.RemoteAddr)

	go conn.WriteLoop(ctx)

	defer func() {
		conn.markClosed()
		session.Close()
		s.counter.DecrConnections()
		_ = conn.Close(websocket.StatusNormalClosure, "")
		s.log.Info("Connection closed", "conn_id", conn.ID())
	}()

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			s.logReadError(conn, err)
			return
		}
		if err := session.HandleMessage(data); err != nil {
			s.log.Debug("Message not handled", "conn_id", conn.ID(), "error", err)
		}
	}
}

func (s *RelayServer) logReadError(conn *Conn, err error) {
	status := websocket.CloseStatus(err)
	switch {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		s.log.Debug("Client closed the connection", "conn_id", conn.ID(), "status", status)
	case errors.Is(err, context.Canceled):
		s.log.Debug("Connection canceled", "conn_id", conn.ID())
	default:
		s.log.Debug("Read failed", "conn_id", conn.ID(), "status", status, "error", err)
	}
}
