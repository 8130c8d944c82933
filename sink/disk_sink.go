package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/google/uuid"
)

var _ contract.EventSink = DiskSink{}

// DiskSink writes the room membership history to the event repository.
// Relayed messages are never persisted, the relay keeps no payload.
type DiskSink struct {
	repository repositories.IRoomEventRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IRoomEventRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(ctx context.Context, e event.DomainEvent) error {
	diskEvent, ok := toDiskEvent(e)
	if !ok {
		d.log.Debug(fmt.Sprintf("Not persisted event : %s", e.Kind()))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.repository.StoreEvent(diskEvent)
}

func toDiskEvent(e event.DomainEvent) (repositories.DiskEvent, bool) {
	diskEvent := repositories.DiskEvent{
		ID:   uuid.New(),
		Room: string(e.RoomID()),
		Kind: string(e.Kind()),
		At:   e.OccurredAt(),
	}
	switch evt := e.(type) {
	case event.RoomCreated, event.RoomClosed:
	case event.ParticipantJoined:
		diskEvent.ConnID = string(evt.ConnID)
		diskEvent.Nickname = evt.Nickname
		diskEvent.Users = evt.Users
		if evt.IsHost {
			diskEvent.Detail = "host"
		}
	case event.JoinRejected:
		diskEvent.ConnID = string(evt.ConnID)
		diskEvent.Nickname = evt.Nickname
		diskEvent.Detail = evt.Reason
	case event.ParticipantLeft:
		diskEvent.ConnID = string(evt.ConnID)
		diskEvent.Nickname = evt.Nickname
		diskEvent.Users = evt.Users
	case event.HostAssigned:
		diskEvent.ConnID = string(evt.ConnID)
		diskEvent.Nickname = evt.Nickname
	default:
		return repositories.DiskEvent{}, false
	}
	return diskEvent, true
}
