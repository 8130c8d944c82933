package runtime

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/samber/lo"
)

// Registry is the in-memory directory of rooms.
// It owns every Room; a room is deleted by the same event that removes its
// last member. Lock order is Room then Registry, never the reverse.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[domain.RoomID]*Room
	publisher contract.EventPublisher
	log       *slog.Logger
}

func NewRegistry(publisher contract.EventPublisher, log *slog.Logger) *Registry {
	return &Registry{
		rooms:     make(map[domain.RoomID]*Room),
		publisher: publisher,
		log:       log,
	}
}

// GetOrCreate returns the room registered under id, creating an empty one
// without host when it does not exist. The boolean reports a creation.
func (r *Registry) GetOrCreate(id domain.RoomID) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[id]; ok {
		return room, false
	}
	room := newRoom(id, r.release, r.publisher, r.log)
	r.rooms[id] = room
	r.log.Debug("Room created", "room_id", id)
	r.publisher.Publish(event.RoomCreated{Room: id, At: time.Now().UTC()})
	return room, true
}

func (r *Registry) Get(id domain.RoomID) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Remove deletes the entry registered under id whatever instance it holds.
// Rooms leave the registry through release when their last member departs;
// Remove is the unconditional variant and does not close the room.
func (r *Registry) Remove(id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// release removes room only if it is still the registered instance, so a
// fresh room created under the same id is never deleted by a stale one.
func (r *Registry) release(room *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.rooms[room.ID()]; ok && current == room {
		delete(r.rooms, room.ID())
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Snapshot lists the populated rooms sorted by id.
func (r *Registry) Snapshot() []domain.RoomSnapshot {
	r.mu.RLock()
	rooms := lo.Values(r.rooms)
	r.mu.RUnlock()

	snapshots := lo.FilterMap(rooms, func(room *Room, _ int) (domain.RoomSnapshot, bool) {
		s := room.Snapshot()
		return s, len(s.Users) > 0
	})
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ID < snapshots[j].ID })
	return snapshots
}
