//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
)

// Conn is what the relay needs from a transport connection.
// Send is best effort: it never blocks and never reports delivery failures.
type Conn interface {
	ID() domain.ConnID
	Send(payload []byte)
	IsOpen() bool
}

// Session is the per-connection protocol handler driven by the transport.
type Session interface {
	HandleMessage(raw []byte) error
	Close()
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// EventPublisher accepts lifecycle events without blocking the caller.
type EventPublisher interface {
	Publish(e event.DomainEvent)
}

// NameModerator sanitizes display names.
type NameModerator interface {
	Censor(original string) (string, []string)
}
