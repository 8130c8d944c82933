// Package domain contains core concepts of the relay.
// This file defines the wire messages exchanged with clients.
// Payloads other than JOIN are opaque and never decoded past their type.
package domain

type MessageType string

const (
	TypeJoin         MessageType = "JOIN"
	TypeJoined       MessageType = "JOINED"
	TypeUserJoined   MessageType = "USER_JOINED"
	TypeUserLeft     MessageType = "USER_LEFT"
	TypeHostAssigned MessageType = "HOST_ASSIGNED"
	TypeError        MessageType = "ERROR"
)

// RoomFullMessage is the text of the ERROR sent to a rejected joiner.
const RoomFullMessage = "Room is full"

// Envelope is the minimal structure every inbound message must have.
type Envelope struct {
	Type MessageType `json:"type" validate:"required"`
}

type JoinRequest struct {
	Type     MessageType `json:"type"`
	RoomID   RoomID      `json:"roomId" validate:"required"`
	Nickname string      `json:"nickname"`
}

type Joined struct {
	Type   MessageType `json:"type"`
	RoomID RoomID      `json:"roomId"`
	IsHost bool        `json:"isHost"`
	Users  []string    `json:"users"`
}

type UserJoined struct {
	Type     MessageType `json:"type"`
	Nickname string      `json:"nickname"`
	Users    []string    `json:"users"`
}

type UserLeft struct {
	Type     MessageType `json:"type"`
	Nickname string      `json:"nickname"`
	Users    []string    `json:"users"`
}

type HostAssigned struct {
	Type MessageType `json:"type"`
}

type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func NewJoined(roomID RoomID, isHost bool, users []string) Joined {
	return Joined{Type: TypeJoined, RoomID: roomID, IsHost: isHost, Users: users}
}

func NewUserJoined(nickname string, users []string) UserJoined {
	return UserJoined{Type: TypeUserJoined, Nickname: nickname, Users: users}
}

func NewUserLeft(nickname string, users []string) UserLeft {
	return UserLeft{Type: TypeUserLeft, Nickname: nickname, Users: users}
}

func NewHostAssigned() HostAssigned {
	return HostAssigned{Type: TypeHostAssigned}
}

func NewRoomFull() ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: RoomFullMessage}
}
