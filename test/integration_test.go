package test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/infrastructure/websocket"
	"github.com/Jeyasaravanan18/synctube-backend/internal"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/Jeyasaravanan18/synctube-backend/runtime"
	"github.com/Jeyasaravanan18/synctube-backend/services"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	ws "nhooyr.io/websocket"
)

type stack struct {
	server     *httptest.Server
	repository repositories.RoomEventRepository
	monitoring *observability.MonitoringManager
}

func startStack(t *testing.T) stack {
	t.Helper()
	log := slog.New(slog.DiscardHandler)

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repository := repositories.NewRoomEventRepository(db, log, lo.ToPtr(100))
	monitoring := observability.NewMonitoringManager(log, 20*time.Millisecond)
	orchestrator := runtime.NewOrchestrator(log, repository, monitoring, validator.New(), runtime.Options{
		BufferSize:           64,
		SinkTimeout:          time.Second,
		RestartInterval:      10 * time.Millisecond,
		MetricInterval:       20 * time.Millisecond,
		LowCapacityThreshold: 10,
		TimelineSize:         50,
	})
	require.NoError(t, orchestrator.Start(context.Background()))
	t.Cleanup(orchestrator.Stop)

	relay := services.NewRelayService(orchestrator)
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.NewRelayServer(log, relay, monitoring, websocket.Options{
		OriginPatterns: []string{"*"},
		ReadLimit:      4096,
		BufferSize:     16,
		WriteTimeout:   time.Second,
		PingInterval:   time.Second,
	}))
	internal.NewDebugServer(log, relay, monitoring, orchestrator.Timeline(), repository).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return stack{server: server, repository: repository, monitoring: monitoring}
}

type participant struct {
	t  *testing.T
	ws *ws.Conn
}

func (s stack) connect(t *testing.T) *participant {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(s.server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return &participant{t: t, ws: conn}
}

func (p *participant) send(payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(p.t, p.ws.Write(ctx, ws.MessageText, []byte(payload)))
}

func (p *participant) receive() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, payload, err := p.ws.Read(ctx)
	require.NoError(p.t, err)
	var frame map[string]any
	require.NoError(p.t, json.Unmarshal(payload, &frame))
	return frame
}

func (p *participant) receiveRaw() string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, payload, err := p.ws.Read(ctx)
	require.NoError(p.t, err)
	return string(payload)
}

func (s stack) getJSON(t *testing.T, path string, v any) {
	t.Helper()
	res, err := http.Get(s.server.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func Test_WatchParty(t *testing.T) {
	req := require.New(t)
	s := startStack(t)

	alice := s.connect(t)
	bob := s.connect(t)
	carol := s.connect(t)

	// Given Alice opens the room
	alice.send(`{"type":"JOIN","roomId":"movie-night","nickname":"Alice"}`)
	joined := alice.receive()
	req.Equal("JOINED", joined["type"])
	req.Equal(true, joined["isHost"])
	req.Equal([]any{"Alice"}, joined["users"])

	// When Bob joins
	bob.send(`{"type":"JOIN","roomId":"movie-night","nickname":"Bob"}`)

	// Then Bob is a guest and Alice sees him arrive
	joined = bob.receive()
	req.Equal(false, joined["isHost"])
	req.Equal([]any{"Alice", "Bob"}, joined["users"])
	arrived := alice.receive()
	req.Equal("USER_JOINED", arrived["type"])
	req.Equal("Bob", arrived["nickname"])

	// When Carol tries to join a full room
	carol.send(`{"type":"JOIN","roomId":"movie-night","nickname":"Carol"}`)

	// Then she is turned away
	req.Equal(map[string]any{"type": "ERROR", "message": "Room is full"}, carol.receive())

	// When Alice seeks
	sync := `{"type":"SYNC","action":"seek","time":42.5,"extra":{"nested":true}}`
	alice.send(sync)

	// Then Bob receives the frame byte for byte
	req.Equal(sync, bob.receiveRaw())

	// And the room is listed
	var rooms []domain.RoomSnapshot
	s.getJSON(t, "/debug/rooms", &rooms)
	req.Len(rooms, 1)
	req.Equal(domain.RoomID("movie-night"), rooms[0].ID)
	req.Equal("Alice", rooms[0].Host)

	// When Alice leaves
	req.NoError(alice.ws.Close(ws.StatusNormalClosure, "bye"))

	// Then Bob is promoted
	req.Equal("HOST_ASSIGNED", bob.receive()["type"])
	left := bob.receive()
	req.Equal("USER_LEFT", left["type"])
	req.Equal("Alice", left["nickname"])
	req.Equal([]any{"Bob"}, left["users"])

	// When Bob leaves too
	req.NoError(bob.ws.Close(ws.StatusNormalClosure, "bye"))

	// Then the room disappears and its history is persisted
	req.Eventually(func() bool {
		var rooms []domain.RoomSnapshot
		s.getJSON(t, "/debug/rooms", &rooms)
		return len(rooms) == 0
	}, 2*time.Second, 20*time.Millisecond)

	req.Eventually(func() bool {
		events, _, err := s.repository.GetEvents("movie-night", nil)
		return err == nil && len(events) == 8
	}, 2*time.Second, 20*time.Millisecond)

	events, _, err := s.repository.GetEvents("movie-night", nil)
	req.NoError(err)
	kinds := lo.Map(events, func(e repositories.DiskEvent, _ int) string { return e.Kind })
	req.ElementsMatch([]string{
		string(event.RoomClosedKind),
		string(event.ParticipantLeftKind),
		string(event.HostAssignedKind),
		string(event.ParticipantLeftKind),
		string(event.JoinRejectedKind),
		string(event.ParticipantJoinedKind),
		string(event.ParticipantJoinedKind),
		string(event.RoomCreatedKind),
	}, kinds)

	// And the counters reflect the session
	req.Eventually(func() bool {
		stats := s.monitoring.GetLatest()
		return stats.RoomsCreated == 1 && stats.RoomsClosed == 1 &&
			stats.JoinsAccepted == 2 && stats.JoinsRejected == 1 && stats.MessagesRelayed == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func Test_DebugEvents_RendersHistory(t *testing.T) {
	req := require.New(t)
	s := startStack(t)

	// Given a room that has seen one join
	alice := s.connect(t)
	alice.send(`{"type":"JOIN","roomId":"archive","nickname":"Alice"}`)
	req.Equal("JOINED", alice.receive()["type"])

	req.Eventually(func() bool {
		events, _, err := s.repository.GetEvents("archive", nil)
		return err == nil && len(events) == 2
	}, 2*time.Second, 20*time.Millisecond)

	// When the page is requested
	res, err := http.Get(s.server.URL + "/debug/events?room=archive")
	req.NoError(err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	req.NoError(err)

	// Then the history is rendered
	req.Equal(http.StatusOK, res.StatusCode)
	req.Contains(string(body), "PARTICIPANT_JOINED")
	req.Contains(string(body), "Alice")
}
