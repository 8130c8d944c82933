package runtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

// fakeConn records every payload sent to it.
type fakeConn struct {
	id     domain.ConnID
	mu     sync.Mutex
	sent   [][]byte
	closed atomic.Bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: domain.ConnID(id)}
}

func (c *fakeConn) ID() domain.ConnID { return c.id }

func (c *fakeConn) Send(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, append([]byte(nil), payload...))
}

func (c *fakeConn) IsOpen() bool { return !c.closed.Load() }

func (c *fakeConn) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.sent...)
}

// decoded returns every payload as a generic JSON object.
func (c *fakeConn) decoded(t *testing.T) []map[string]any {
	t.Helper()
	var res []map[string]any
	for _, raw := range c.messages() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		res = append(res, m)
	}
	return res
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(e event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []event.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	var kinds []event.Kind
	for _, e := range p.events {
		kinds = append(kinds, e.Kind())
	}
	return kinds
}

type countingMonitor struct {
	malformed atomic.Int32
	ignored   atomic.Int32
}

func (m *countingMonitor) IncrMalformed() { m.malformed.Add(1) }
func (m *countingMonitor) IncrIgnored()   { m.ignored.Add(1) }

type fixture struct {
	registry  *Registry
	publisher *recordingPublisher
	monitor   *countingMonitor
	log       *slog.Logger
}

func newFixture() *fixture {
	log := slog.New(slog.DiscardHandler)
	publisher := &recordingPublisher{}
	return &fixture{
		registry:  NewRegistry(publisher, log),
		publisher: publisher,
		monitor:   &countingMonitor{},
		log:       log,
	}
}

func (f *fixture) session(conn *fakeConn) *Session {
	return NewSession(conn, f.registry, nil, f.monitor, validator.New(), f.log)
}

func joinMessage(room, nickname string) []byte {
	b, _ := json.Marshal(map[string]string{"type": "JOIN", "roomId": room, "nickname": nickname})
	return b
}

func usersOf(m map[string]any) []string {
	var users []string
	for _, u := range m["users"].([]any) {
		users = append(users, u.(string))
	}
	return users
}
