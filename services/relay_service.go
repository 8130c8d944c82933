//go:generate go run go.uber.org/mock/mockgen -source=relay_service.go -destination=../mocks/mock_relay_service.go -package=mocks
package services

import (
	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/runtime"
)

type IRelayService interface {
	Open(conn contract.Conn) contract.Session
	Rooms() []domain.RoomSnapshot
}

// RelayService is the entry point of the transports into the runtime.
type RelayService struct {
	orchestrator *runtime.Orchestrator
}

func NewRelayService(o *runtime.Orchestrator) *RelayService {
	return &RelayService{orchestrator: o}
}

// Open starts the session of a newly accepted connection.
func (s *RelayService) Open(conn contract.Conn) contract.Session {
	return s.orchestrator.NewSession(conn)
}

func (s *RelayService) Rooms() []domain.RoomSnapshot {
	return s.orchestrator.Rooms()
}
