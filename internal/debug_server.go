package internal

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/projection"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Kind     string
	Time     string
	ConnID   string
	Nickname string
	Users    string
	Detail   string
}

type PageData struct {
	Room       string
	Items      []InspectRow
	NextCursor string
	Stats      observability.MonitoringStats
}

// RoomLister exposes the live rooms.
type RoomLister interface {
	Rooms() []domain.RoomSnapshot
}

// DebugServer serves the operator endpoints under /debug/.
type DebugServer struct {
	log        *slog.Logger
	rooms      RoomLister
	monitoring *observability.MonitoringManager
	timeline   *projection.Timeline
	events     repositories.IRoomEventRepository
	tmpl       *template.Template
}

func NewDebugServer(log *slog.Logger, rooms RoomLister, monitoring *observability.MonitoringManager,
	timeline *projection.Timeline, events repositories.IRoomEventRepository) *DebugServer {
	return &DebugServer{
		log:        log,
		rooms:      rooms,
		monitoring: monitoring,
		timeline:   timeline,
		events:     events,
		tmpl:       template.Must(template.ParseFS(templatesFS, "inspect.html")),
	}
}

// Register mounts every endpoint on mux.
func (d *DebugServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/stats", d.handleStats)
	mux.HandleFunc("GET /debug/rooms", d.handleRooms)
	mux.HandleFunc("GET /debug/timeline", d.handleTimeline)
	mux.HandleFunc("GET /debug/events", d.handleEvents)
}

func (d *DebugServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	d.writeJSON(w, d.monitoring.GetLatest())
}

func (d *DebugServer) handleRooms(w http.ResponseWriter, _ *http.Request) {
	rooms := d.rooms.Rooms()
	if rooms == nil {
		rooms = []domain.RoomSnapshot{}
	}
	d.writeJSON(w, rooms)
}

func (d *DebugServer) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	entries := d.timeline.Entries()
	if entries == nil {
		entries = []projection.Entry{}
	}
	d.writeJSON(w, entries)
}

// handleEvents renders the persisted history of one room, newest first.
func (d *DebugServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		http.Error(w, "missing room query parameter", http.StatusBadRequest)
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	events, next, err := d.events.GetEvents(room, cursor)
	if err != nil {
		d.log.Error("Failed to read room events", "room_id", room, "error", err)
		http.Error(w, "failed to read events", http.StatusInternalServerError)
		return
	}

	data := PageData{
		Room:  room,
		Items: lo.Map(events, func(e repositories.DiskEvent, _ int) InspectRow { return toInspectRow(e) }),
		Stats: d.monitoring.GetLatest(),
	}
	if next != nil {
		data.NextCursor = *next
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.tmpl.Execute(w, data); err != nil {
		d.log.Error("Failed to render events page", "error", err)
	}
}

func (d *DebugServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.log.Error("Failed to encode debug response", "error", err)
	}
}

func toInspectRow(e repositories.DiskEvent) InspectRow {
	connID := e.ConnID
	if len(connID) > 8 {
		connID = connID[:8]
	}
	users := "-"
	if len(e.Users) > 0 {
		users = lo.Reduce(e.Users[1:], func(acc string, u string, _ int) string { return acc + ", " + u }, e.Users[0])
	}
	return InspectRow{
		Kind:     e.Kind,
		Time:     e.At.Format(time.TimeOnly),
		ConnID:   connID,
		Nickname: e.Nickname,
		Users:    users,
		Detail:   e.Detail,
	}
}
