package domain

// JoinCommand asks to enter a room under a nickname.
type JoinCommand struct {
	Room     RoomID
	ConnID   ConnID
	Nickname string
}

// RelayCommand carries an opaque payload from a joined connection.
type RelayCommand struct {
	Room        RoomID
	ConnID      ConnID
	MessageType MessageType
	Payload     []byte
}
