package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/mocks"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/projection"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticRooms []domain.RoomSnapshot

func (s staticRooms) Rooms() []domain.RoomSnapshot { return s }

func newDebugServer(t *testing.T, rooms RoomLister) (*httptest.Server, *mocks.MockIRoomEventRepository, *projection.Timeline) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIRoomEventRepository(ctrl)
	timeline := projection.NewTimeline(10)
	monitoring := observability.NewMonitoringManager(log, time.Second)

	mux := http.NewServeMux()
	NewDebugServer(log, rooms, monitoring, timeline, repository).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, repository, timeline
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestDebugServer_Rooms(t *testing.T) {
	req := require.New(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	server, _, _ := newDebugServer(t, staticRooms{
		{ID: "movie-night", Users: []string{"Alice", "Bob"}, Host: "Alice", CreatedAt: createdAt},
	})

	status, body := get(t, server.URL+"/debug/rooms")

	req.Equal(http.StatusOK, status)
	var rooms []domain.RoomSnapshot
	req.NoError(json.Unmarshal([]byte(body), &rooms))
	req.Equal([]domain.RoomSnapshot{
		{ID: "movie-night", Users: []string{"Alice", "Bob"}, Host: "Alice", CreatedAt: createdAt},
	}, rooms)
}

func TestDebugServer_Rooms_EmptyIsArray(t *testing.T) {
	req := require.New(t)
	server, _, _ := newDebugServer(t, staticRooms(nil))

	status, body := get(t, server.URL+"/debug/rooms")

	req.Equal(http.StatusOK, status)
	req.JSONEq(`[]`, body)
}

func TestDebugServer_Stats(t *testing.T) {
	req := require.New(t)
	server, _, _ := newDebugServer(t, staticRooms(nil))

	status, body := get(t, server.URL+"/debug/stats")

	req.Equal(http.StatusOK, status)
	var stats observability.MonitoringStats
	req.NoError(json.Unmarshal([]byte(body), &stats))
	req.Zero(stats.ActiveRooms)
}

func TestDebugServer_Timeline(t *testing.T) {
	req := require.New(t)
	server, _, timeline := newDebugServer(t, staticRooms(nil))

	// Given one recorded join
	req.NoError(timeline.Consume(context.Background(), event.ParticipantJoined{
		Room: "movie-night", Nickname: "Alice", Users: []string{"Alice"}, At: time.Now(),
	}))

	status, body := get(t, server.URL+"/debug/timeline")

	req.Equal(http.StatusOK, status)
	var entries []projection.Entry
	req.NoError(json.Unmarshal([]byte(body), &entries))
	req.Len(entries, 1)
	req.Equal("Alice", entries[0].Nickname)
}

func TestDebugServer_Events_RequiresRoom(t *testing.T) {
	req := require.New(t)
	server, _, _ := newDebugServer(t, staticRooms(nil))

	status, _ := get(t, server.URL+"/debug/events")

	req.Equal(http.StatusBadRequest, status)
}

func TestDebugServer_Events_Page(t *testing.T) {
	req := require.New(t)
	server, repository, _ := newDebugServer(t, staticRooms(nil))

	// Given one page of history with an older page behind it
	repository.EXPECT().GetEvents("movie-night", lo.ToPtr("older")).Return([]repositories.DiskEvent{
		{
			ID:       uuid.New(),
			Room:     "movie-night",
			Kind:     string(event.ParticipantJoinedKind),
			ConnID:   "0123456789abcdef",
			Nickname: "Alice",
			Users:    []string{"Alice", "Bob"},
			Detail:   "host",
			At:       time.Now(),
		},
	}, lo.ToPtr("next-key"), nil)

	status, body := get(t, server.URL+"/debug/events?room=movie-night&cursor=older")

	req.Equal(http.StatusOK, status)
	req.Contains(body, "PARTICIPANT_JOINED")
	req.Contains(body, "01234567")
	req.NotContains(body, "0123456789abcdef")
	req.Contains(body, "Alice, Bob")
	req.Contains(body, "cursor=next-key")
}

func TestDebugServer_Events_RepositoryFailure(t *testing.T) {
	req := require.New(t)
	server, repository, _ := newDebugServer(t, staticRooms(nil))

	repository.EXPECT().GetEvents("movie-night", nil).Return(nil, nil, errors.New("disk on fire"))

	status, _ := get(t, server.URL+"/debug/events?room=movie-night")

	req.Equal(http.StatusInternalServerError, status)
}
