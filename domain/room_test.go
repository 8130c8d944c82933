package domain

import (
	"testing"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/errors"
	"github.com/stretchr/testify/require"
)

func requireInvariants(t *testing.T, room *Room) {
	t.Helper()
	req := require.New(t)
	req.LessOrEqual(room.Size(), Capacity)
	host, ok := room.Host()
	if room.IsEmpty() {
		req.False(ok)
		return
	}
	req.True(ok)
	req.True(room.Has(host.ConnID))
}

func TestRoom_Join_FirstJoinerIsHost(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())

	// When the first participant joins
	res, err := room.Join(NewParticipant("c1", "Alice", time.Now()))

	// Then it becomes the host
	req.NoError(err)
	req.True(res.IsHost)
	req.Equal([]string{"Alice"}, res.Users)
	req.Empty(res.Others)
	req.True(room.IsHost("c1"))
	requireInvariants(t, room)
}

func TestRoom_Join_SecondJoinerIsNotHost(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, err := room.Join(NewParticipant("c1", "Alice", time.Now()))
	req.NoError(err)

	res, err := room.Join(NewParticipant("c2", "Bob", time.Now()))

	req.NoError(err)
	req.False(res.IsHost)
	req.Equal([]string{"Alice", "Bob"}, res.Users)
	req.Len(res.Others, 1)
	req.Equal(ConnID("c1"), res.Others[0].ConnID)
	requireInvariants(t, room)
}

func TestRoom_Join_DefaultsNickname(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())

	res, err := room.Join(NewParticipant("c1", "", time.Now()))

	req.NoError(err)
	req.Equal(DefaultDisplayName, res.Participant.DisplayName)
	req.Equal([]string{"Anonymous"}, room.Users())
}

func TestRoom_Join_KeepsBlankNickname(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())

	// Given a nickname made of spaces only
	res, err := room.Join(NewParticipant("c1", "  ", time.Now()))

	// Then it is kept as sent, only an absent nickname is defaulted
	req.NoError(err)
	req.Equal("  ", res.Participant.DisplayName)
	req.Equal([]string{"  "}, room.Users())
}

func TestRoom_Join_RejectsWhenFull(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))
	_, _ = room.Join(NewParticipant("c2", "Bob", time.Now()))

	// When a third participant joins
	_, err := room.Join(NewParticipant("c3", "Clara", time.Now()))

	// Then the room is full and membership is unchanged
	req.ErrorIs(err, errors.ErrRoomFull)
	req.Equal([]string{"Alice", "Bob"}, room.Users())
	req.False(room.Has("c3"))
	requireInvariants(t, room)
}

func TestRoom_Join_RejectsSameConnectionTwice(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))

	_, err := room.Join(NewParticipant("c1", "Alice", time.Now()))

	req.ErrorIs(err, errors.ErrAlreadyMember)
	req.Equal(1, room.Size())
}

func TestRoom_Leave_HostDepartureElectsRemaining(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))
	_, _ = room.Join(NewParticipant("c2", "Bob", time.Now()))

	// When the host leaves
	res, ok := room.Leave("c1")

	// Then Bob is elected
	req.True(ok)
	req.True(res.WasHost)
	req.False(res.Empty)
	req.NotNil(res.NewHost)
	req.Equal(ConnID("c2"), res.NewHost.ConnID)
	req.Equal("Alice", res.Departed.DisplayName)
	req.Equal([]string{"Bob"}, res.Users)
	req.True(room.IsHost("c2"))
	requireInvariants(t, room)
}

func TestRoom_Leave_GuestDepartureKeepsHost(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))
	_, _ = room.Join(NewParticipant("c2", "Bob", time.Now()))

	res, ok := room.Leave("c2")

	req.True(ok)
	req.False(res.WasHost)
	req.Nil(res.NewHost)
	req.Equal([]string{"Alice"}, res.Users)
	req.True(room.IsHost("c1"))
	requireInvariants(t, room)
}

func TestRoom_Leave_LastMemberEmptiesRoom(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))

	res, ok := room.Leave("c1")

	req.True(ok)
	req.True(res.Empty)
	req.True(room.IsEmpty())
	_, hasHost := room.Host()
	req.False(hasHost)
}

func TestRoom_Leave_UnknownConnectionIsNoop(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))

	_, ok := room.Leave("ghost")

	req.False(ok)
	req.Equal(1, room.Size())
	requireInvariants(t, room)
}

func TestRoom_Leave_ThenRejoinAfterFull(t *testing.T) {
	req := require.New(t)
	room := NewRoom("r1", time.Now())
	_, _ = room.Join(NewParticipant("c1", "Alice", time.Now()))
	_, _ = room.Join(NewParticipant("c2", "Bob", time.Now()))
	_, _ = room.Leave("c1")

	// Given a freed seat, a new participant is accepted as guest
	res, err := room.Join(NewParticipant("c3", "Clara", time.Now()))

	req.NoError(err)
	req.False(res.IsHost)
	req.Equal([]string{"Bob", "Clara"}, res.Users)
	requireInvariants(t, room)
}
