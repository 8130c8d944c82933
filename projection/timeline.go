// Package projection builds local views from observed lifecycle events.
// Does not emit events or interact with clients directly.
package projection

import (
	"context"
	"sync"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
)

var _ contract.EventSink = (*Timeline)(nil)

// Entry is one line of the timeline.
type Entry struct {
	Room     domain.RoomID `json:"roomId"`
	Kind     event.Kind    `json:"kind"`
	Nickname string        `json:"nickname,omitempty"`
	Users    []string      `json:"users,omitempty"`
	At       time.Time     `json:"at"`
}

// Timeline keeps the most recent membership events, oldest first.
// Relayed messages are not recorded.
type Timeline struct {
	mu      sync.RWMutex
	limit   int
	entries []Entry
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	entry, ok := toEntry(e)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	if overflow := len(t.entries) - t.limit; overflow > 0 {
		t.entries = append([]Entry(nil), t.entries[overflow:]...)
	}
	return nil
}

// Entries returns a copy of the timeline.
func (t *Timeline) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

func toEntry(e event.DomainEvent) (Entry, bool) {
	entry := Entry{Room: e.RoomID(), Kind: e.Kind(), At: e.OccurredAt()}
	switch evt := e.(type) {
	case event.RoomCreated, event.RoomClosed:
	case event.ParticipantJoined:
		entry.Nickname = evt.Nickname
		entry.Users = evt.Users
	case event.ParticipantLeft:
		entry.Nickname = evt.Nickname
		entry.Users = evt.Users
	case event.JoinRejected:
		entry.Nickname = evt.Nickname
	case event.HostAssigned:
		entry.Nickname = evt.Nickname
	default:
		return Entry{}, false
	}
	return entry, true
}
