package domain

import (
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/errors"
	"github.com/samber/lo"
)

// Capacity is the maximum number of participants in a room.
const Capacity = 2

type RoomID string

// Room is the membership state of one synchronization session.
// It is not safe for concurrent use; callers serialize access per room.
type Room struct {
	ID        RoomID
	CreatedAt time.Time
	members   []Participant // ordered by join time
	host      ConnID        // empty only while members is empty
}

type JoinResult struct {
	Participant Participant
	IsHost      bool
	Users       []string
	Others      []Participant
}

type LeaveResult struct {
	Departed Participant
	WasHost  bool
	NewHost  *Participant
	Empty    bool
	Users    []string
	Others   []Participant
}

func NewRoom(id RoomID, createdAt time.Time) *Room {
	return &Room{ID: id, CreatedAt: createdAt}
}

// Join adds the participant. The first participant of a room without a host
// becomes the host.
func (r *Room) Join(p Participant) (JoinResult, error) {
	if r.Has(p.ConnID) {
		return JoinResult{}, errors.ErrAlreadyMember
	}
	if len(r.members) >= Capacity {
		return JoinResult{}, errors.ErrRoomFull
	}
	r.members = append(r.members, p)
	if r.host == "" {
		r.host = p.ConnID
	}
	return JoinResult{
		Participant: p,
		IsHost:      r.host == p.ConnID,
		Users:       r.Users(),
		Others:      r.Others(p.ConnID),
	}, nil
}

// Leave removes the participant bound to connID. When the host leaves a
// non-empty room, the earliest-joined remaining participant is elected.
// The boolean is false when connID is not a member.
func (r *Room) Leave(connID ConnID) (LeaveResult, bool) {
	departed, idx, ok := lo.FindIndexOf(r.members, func(p Participant) bool {
		return p.ConnID == connID
	})
	if !ok {
		return LeaveResult{}, false
	}
	r.members = append(r.members[:idx:idx], r.members[idx+1:]...)

	res := LeaveResult{Departed: departed, WasHost: r.host == connID}
	if len(r.members) == 0 {
		r.host = ""
		res.Empty = true
		return res, true
	}
	if res.WasHost {
		next := r.members[0]
		r.host = next.ConnID
		res.NewHost = &next
	}
	res.Users = r.Users()
	res.Others = r.Members()
	return res, true
}

// Host returns the current host, if any.
func (r *Room) Host() (Participant, bool) {
	return r.Participant(r.host)
}

func (r *Room) IsHost(connID ConnID) bool {
	return connID != "" && r.host == connID
}

func (r *Room) Participant(connID ConnID) (Participant, bool) {
	return lo.Find(r.members, func(p Participant) bool {
		return p.ConnID == connID
	})
}

func (r *Room) Has(connID ConnID) bool {
	_, ok := r.Participant(connID)
	return ok
}

// Members returns a copy of the participants in join order.
func (r *Room) Members() []Participant {
	return append([]Participant(nil), r.members...)
}

// Others returns every participant except connID, in join order.
func (r *Room) Others(connID ConnID) []Participant {
	return lo.Filter(r.members, func(p Participant, _ int) bool {
		return p.ConnID != connID
	})
}

// Users returns the display names in join order.
func (r *Room) Users() []string {
	return lo.Map(r.members, func(p Participant, _ int) string {
		return p.DisplayName
	})
}

func (r *Room) Size() int { return len(r.members) }

func (r *Room) IsEmpty() bool { return len(r.members) == 0 }

// RoomSnapshot is a point in time copy of a room, for operators.
type RoomSnapshot struct {
	ID        RoomID    `json:"roomId"`
	Users     []string  `json:"users"`
	Host      string    `json:"host"`
	CreatedAt time.Time `json:"createdAt"`
}
