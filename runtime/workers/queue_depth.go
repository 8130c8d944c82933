package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
)

// Queue is a buffered relay channel observed by the QueueDepthWorker.
type Queue struct {
	Name  string
	depth func() (length, capacity int)
}

// WatchQueue wraps ch so its depth can be sampled without knowing its element type.
func WatchQueue[T any](name string, ch chan T) Queue {
	return Queue{Name: name, depth: func() (int, int) { return len(ch), cap(ch) }}
}

// QueueDepthWorker reports how full the domain event and telemetry queues are.
// Unbuffered queues are skipped.
type QueueDepthWorker struct {
	log           *slog.Logger
	queues        []Queue
	telemetryChan chan event.Event
	interval      time.Duration
}

func NewQueueDepthWorker(log *slog.Logger, telemetryChan chan event.Event,
	interval time.Duration, queues ...Queue) *QueueDepthWorker {
	return &QueueDepthWorker{
		log:           log,
		queues:        queues,
		telemetryChan: telemetryChan,
		interval:      interval,
	}
}

func (w *QueueDepthWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping queue depth sampling")
			return nil
		case now := <-ticker.C:
			for _, q := range w.queues {
				w.report(q, now.UTC())
			}
		}
	}
}

func (w *QueueDepthWorker) report(q Queue, at time.Time) {
	length, capacity := q.depth()
	if capacity == 0 {
		return
	}
	sample := event.Event{
		Type:      event.ChannelCapacityType,
		CreatedAt: at,
		Payload:   event.ChannelCapacity{ChannelName: q.Name, Capacity: capacity, Length: length},
	}
	select {
	case w.telemetryChan <- sample:
	default:
		w.log.Debug("Telemetry queue full, depth sample dropped", "queue", q.Name)
	}
}
