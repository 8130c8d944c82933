package event

import (
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
)

// DomainEvent is a room lifecycle fact published for observability.
// Clients never see these, they only feed sinks.
type DomainEvent interface {
	RoomID() domain.RoomID
	Kind() Kind
	OccurredAt() time.Time
}

type Kind string

const (
	RoomCreatedKind       Kind = "ROOM_CREATED"
	ParticipantJoinedKind Kind = "PARTICIPANT_JOINED"
	JoinRejectedKind      Kind = "JOIN_REJECTED"
	ParticipantLeftKind   Kind = "PARTICIPANT_LEFT"
	HostAssignedKind      Kind = "HOST_ASSIGNED"
	RoomClosedKind        Kind = "ROOM_CLOSED"
	MessageRelayedKind    Kind = "MESSAGE_RELAYED"
)

type RoomCreated struct {
	Room domain.RoomID
	At   time.Time
}

func (e RoomCreated) RoomID() domain.RoomID { return e.Room }
func (e RoomCreated) Kind() Kind            { return RoomCreatedKind }
func (e RoomCreated) OccurredAt() time.Time { return e.At }

type ParticipantJoined struct {
	Room     domain.RoomID
	ConnID   domain.ConnID
	Nickname string
	IsHost   bool
	Users    []string
	At       time.Time
}

func (e ParticipantJoined) RoomID() domain.RoomID { return e.Room }
func (e ParticipantJoined) Kind() Kind            { return ParticipantJoinedKind }
func (e ParticipantJoined) OccurredAt() time.Time { return e.At }

type JoinRejected struct {
	Room     domain.RoomID
	ConnID   domain.ConnID
	Nickname string
	Reason   string
	At       time.Time
}

func (e JoinRejected) RoomID() domain.RoomID { return e.Room }
func (e JoinRejected) Kind() Kind            { return JoinRejectedKind }
func (e JoinRejected) OccurredAt() time.Time { return e.At }

type ParticipantLeft struct {
	Room     domain.RoomID
	ConnID   domain.ConnID
	Nickname string
	Users    []string
	At       time.Time
}

func (e ParticipantLeft) RoomID() domain.RoomID { return e.Room }
func (e ParticipantLeft) Kind() Kind            { return ParticipantLeftKind }
func (e ParticipantLeft) OccurredAt() time.Time { return e.At }

type HostAssigned struct {
	Room     domain.RoomID
	ConnID   domain.ConnID
	Nickname string
	At       time.Time
}

func (e HostAssigned) RoomID() domain.RoomID { return e.Room }
func (e HostAssigned) Kind() Kind            { return HostAssignedKind }
func (e HostAssigned) OccurredAt() time.Time { return e.At }

type RoomClosed struct {
	Room domain.RoomID
	At   time.Time
}

func (e RoomClosed) RoomID() domain.RoomID { return e.Room }
func (e RoomClosed) Kind() Kind            { return RoomClosedKind }
func (e RoomClosed) OccurredAt() time.Time { return e.At }

// MessageRelayed records a relay without its payload.
type MessageRelayed struct {
	Room        domain.RoomID
	ConnID      domain.ConnID
	MessageType domain.MessageType
	Size        int
	Recipients  int
	At          time.Time
}

func (e MessageRelayed) RoomID() domain.RoomID { return e.Room }
func (e MessageRelayed) Kind() Kind            { return MessageRelayedKind }
func (e MessageRelayed) OccurredAt() time.Time { return e.At }
