package runtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/errors"
)

// Room serializes every event of one room and performs its broadcasts.
// The membership rules live in domain.Room; this type only adds locking,
// the connection table and the outbound notifications.
type Room struct {
	mu        sync.Mutex
	state     *domain.Room
	conns     map[domain.ConnID]contract.Conn
	closed    bool
	onEmpty   func(*Room)
	publisher contract.EventPublisher
	log       *slog.Logger
}

func newRoom(id domain.RoomID, onEmpty func(*Room), publisher contract.EventPublisher, log *slog.Logger) *Room {
	return &Room{
		state:     domain.NewRoom(id, time.Now().UTC()),
		conns:     make(map[domain.ConnID]contract.Conn),
		onEmpty:   onEmpty,
		publisher: publisher,
		log:       log.With("room_id", id),
	}
}

func (r *Room) ID() domain.RoomID { return r.state.ID }

// Join admits conn into the room. The joiner is confirmed with JOINED before
// the other member is told with USER_JOINED.
func (r *Room) Join(conn contract.Conn, cmd domain.JoinCommand) (domain.JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.JoinResult{}, errors.ErrRoomClosed
	}

	now := time.Now().UTC()
	res, err := r.state.Join(domain.NewParticipant(conn.ID(), cmd.Nickname, now))
	if err != nil {
		r.publisher.Publish(event.JoinRejected{
			Room:     r.state.ID,
			ConnID:   conn.ID(),
			Nickname: domain.DisplayName(cmd.Nickname),
			Reason:   err.Error(),
			At:       now,
		})
		return domain.JoinResult{}, fmt.Errorf("join room %q: %w", r.state.ID, err)
	}
	r.conns[conn.ID()] = conn

	r.send(conn, domain.NewJoined(r.state.ID, res.IsHost, res.Users))
	for _, other := range res.Others {
		r.sendTo(other.ConnID, domain.NewUserJoined(res.Participant.DisplayName, res.Users))
	}

	r.log.Info("Participant joined",
		"conn_id", conn.ID(),
		"nickname", res.Participant.DisplayName,
		"is_host", res.IsHost)
	r.publisher.Publish(event.ParticipantJoined{
		Room:     r.state.ID,
		ConnID:   conn.ID(),
		Nickname: res.Participant.DisplayName,
		IsHost:   res.IsHost,
		Users:    res.Users,
		At:       now,
	})
	return res, nil
}

// Leave removes connID. The last departure closes the room and removes it
// from the registry before the lock is released.
func (r *Room) Leave(connID domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	res, ok := r.state.Leave(connID)
	if !ok {
		return false
	}
	delete(r.conns, connID)

	now := time.Now().UTC()
	r.log.Info("Participant left", "conn_id", connID, "nickname", res.Departed.DisplayName)
	r.publisher.Publish(event.ParticipantLeft{
		Room:     r.state.ID,
		ConnID:   connID,
		Nickname: res.Departed.DisplayName,
		Users:    res.Users,
		At:       now,
	})

	if res.Empty {
		r.closed = true
		r.onEmpty(r)
		r.log.Info("Room is now empty and has been deleted")
		r.publisher.Publish(event.RoomClosed{Room: r.state.ID, At: now})
		return true
	}

	if res.NewHost != nil {
		r.sendTo(res.NewHost.ConnID, domain.NewHostAssigned())
		r.log.Info("New host assigned", "conn_id", res.NewHost.ConnID, "nickname", res.NewHost.DisplayName)
		r.publisher.Publish(event.HostAssigned{
			Room:     r.state.ID,
			ConnID:   res.NewHost.ConnID,
			Nickname: res.NewHost.DisplayName,
			At:       now,
		})
	}
	for _, other := range res.Others {
		r.sendTo(other.ConnID, domain.NewUserLeft(res.Departed.DisplayName, res.Users))
	}
	return true
}

// Relay forwards the payload untouched to every open member but the sender
// and returns the number of recipients.
func (r *Room) Relay(cmd domain.RelayCommand) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.state.Has(cmd.ConnID) {
		return 0, errors.ErrNotMember
	}

	recipients := 0
	for _, other := range r.state.Others(cmd.ConnID) {
		conn, ok := r.conns[other.ConnID]
		if !ok || !conn.IsOpen() {
			continue
		}
		conn.Send(cmd.Payload)
		recipients++
	}

	r.publisher.Publish(event.MessageRelayed{
		Room:        r.state.ID,
		ConnID:      cmd.ConnID,
		MessageType: cmd.MessageType,
		Size:        len(cmd.Payload),
		Recipients:  recipients,
		At:          time.Now().UTC(),
	})
	return recipients, nil
}

// Snapshot returns a copy of the room state for inspection.
func (r *Room) Snapshot() domain.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := domain.RoomSnapshot{
		ID:        r.state.ID,
		Users:     r.state.Users(),
		CreatedAt: r.state.CreatedAt,
	}
	if host, ok := r.state.Host(); ok {
		snapshot.Host = host.DisplayName
	}
	return snapshot
}

func (r *Room) sendTo(connID domain.ConnID, message any) {
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	r.send(conn, message)
}

// send drops the message silently when the connection is closed.
func (r *Room) send(conn contract.Conn, message any) {
	if !conn.IsOpen() {
		return
	}
	payload, err := json.Marshal(message)
	if err != nil {
		r.log.Error("Failed to encode notification", "conn_id", conn.ID(), "error", err)
		return
	}
	conn.Send(payload)
}
