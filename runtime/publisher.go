package runtime

import (
	"log/slog"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
)

var _ contract.EventPublisher = (*ChannelPublisher)(nil)

// ChannelPublisher pushes lifecycle events onto a buffered channel.
// A full channel drops the event: room handling never waits on observability.
type ChannelPublisher struct {
	events chan<- event.DomainEvent
	log    *slog.Logger
}

func NewChannelPublisher(events chan<- event.DomainEvent, log *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{events: events, log: log}
}

func (p *ChannelPublisher) Publish(e event.DomainEvent) {
	select {
	case p.events <- e:
	default:
		p.log.Warn("Lifecycle event dropped, channel is full",
			"kind", e.Kind(),
			"room_id", e.RoomID())
	}
}
