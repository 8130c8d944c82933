// Package domain contains core concepts of the relay.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// DefaultDisplayName is used when a joiner does not provide a nickname.
const DefaultDisplayName = "Anonymous"

// ConnID identifies a connection for its whole lifetime.
type ConnID string

// Participant binds a connection to a room under a display name.
// The connection itself is never referenced here, only its identity.
type Participant struct {
	ConnID      ConnID
	DisplayName string
	JoinedAt    time.Time
}

func NewParticipant(connID ConnID, nickname string, joinedAt time.Time) Participant {
	return Participant{
		ConnID:      connID,
		DisplayName: DisplayName(nickname),
		JoinedAt:    joinedAt,
	}
}

// DisplayName returns the nickname, or DefaultDisplayName when it is empty.
func DisplayName(nickname string) string {
	if nickname == "" {
		return DefaultDisplayName
	}
	return nickname
}
