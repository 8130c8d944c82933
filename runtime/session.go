package runtime

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/errors"
	"github.com/go-playground/validator/v10"
)

var _ contract.Session = (*Session)(nil)

type SessionState int

const (
	Unjoined SessionState = iota
	Joined
	Closed
)

func (s SessionState) String() string {
	switch s {
	case Unjoined:
		return "UNJOINED"
	case Joined:
		return "JOINED"
	case Closed:
		return "CLOSED"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// SessionMonitor counts what a session drops or rejects.
type SessionMonitor interface {
	IncrMalformed()
	IncrIgnored()
}

// Session drives the protocol of one connection:
// UNJOINED -> JOINED(roomId) -> CLOSED.
type Session struct {
	mu        sync.Mutex
	conn      contract.Conn
	registry  *Registry
	moderator contract.NameModerator
	monitor   SessionMonitor
	validate  *validator.Validate
	log       *slog.Logger
	state     SessionState
	room      *Room
}

func NewSession(conn contract.Conn, registry *Registry, moderator contract.NameModerator,
	monitor SessionMonitor, validate *validator.Validate, log *slog.Logger) *Session {
	return &Session{
		conn:      conn,
		registry:  registry,
		moderator: moderator,
		monitor:   monitor,
		validate:  validate,
		log:       log.With("conn_id", conn.ID()),
		state:     Unjoined,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) RoomID() domain.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return ""
	}
	return s.room.ID()
}

// HandleMessage processes one inbound frame. Errors are reported for the
// transport to log; none of them closes the connection.
func (s *Session) HandleMessage(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var envelope domain.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return s.malformed(err)
	}
	if err := s.validate.Struct(envelope); err != nil {
		return s.malformed(err)
	}

	switch s.state {
	case Joined:
		// Every message is relayed once joined, a late JOIN included.
		return s.relay(envelope.Type, raw)
	case Unjoined:
		if envelope.Type != domain.TypeJoin {
			s.monitor.IncrIgnored()
			s.log.Debug("Message ignored, connection has not joined a room", "type", envelope.Type)
			return nil
		}
		return s.join(raw)
	default:
		s.log.Debug("Message ignored, session is closed", "type", envelope.Type)
		return nil
	}
}

func (s *Session) join(raw []byte) error {
	var request domain.JoinRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return s.malformed(err)
	}
	if err := s.validate.Struct(request); err != nil {
		return s.malformed(err)
	}

	nickname := request.Nickname
	if s.moderator != nil && nickname != "" {
		censored, words := s.moderator.Censor(nickname)
		if len(words) > 0 {
			s.log.Info("Nickname censored", "words", len(words))
		}
		nickname = censored
	}
	cmd := domain.JoinCommand{Room: request.RoomID, ConnID: s.conn.ID(), Nickname: nickname}

	for {
		room, _ := s.registry.GetOrCreate(cmd.Room)
		_, err := room.Join(s.conn, cmd)
		switch {
		case err == nil:
			s.state = Joined
			s.room = room
			return nil
		case goerrors.Is(err, errors.ErrRoomClosed):
			// The room emptied between lookup and join, a fresh one is created.
			continue
		case goerrors.Is(err, errors.ErrRoomFull):
			s.log.Info("Join rejected, room is full", "room_id", cmd.Room)
			s.send(domain.NewRoomFull())
			return err
		default:
			return err
		}
	}
}

func (s *Session) relay(messageType domain.MessageType, raw []byte) error {
	recipients, err := s.room.Relay(domain.RelayCommand{
		Room:        s.room.ID(),
		ConnID:      s.conn.ID(),
		MessageType: messageType,
		Payload:     raw,
	})
	if err != nil {
		return fmt.Errorf("relay to room %q: %w", s.room.ID(), err)
	}
	s.log.Debug("Message relayed", "room_id", s.room.ID(), "type", messageType, "recipients", recipients)
	return nil
}

// Close reports the connection closure. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Joined {
		s.room.Leave(s.conn.ID())
		s.room = nil
	}
	s.state = Closed
}

func (s *Session) malformed(err error) error {
	s.monitor.IncrMalformed()
	s.log.Warn("Failed to process message", "error", err)
	return fmt.Errorf("%w: %v", errors.ErrMalformedMessage, err)
}

func (s *Session) send(message any) {
	if !s.conn.IsOpen() {
		return
	}
	payload, err := json.Marshal(message)
	if err != nil {
		s.log.Error("Failed to encode notification", "error", err)
		return
	}
	s.conn.Send(payload)
}
