package event

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	stats []ProcessStats
}

func (r *recorder) RecordProcessStats(stats ProcessStats) {
	r.stats = append(r.stats, stats)
}

func TestProcessStatsHandler_Handle(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	rec := &recorder{}
	handler := NewProcessStatsHandler(log, rec)

	// Given a process stats event and an unrelated one
	handler.Handle(Event{Type: ProcessStatsType, CreatedAt: time.Now(), Payload: ProcessStats{PID: 42, Ram: 1024}})
	handler.Handle(Event{Type: ChannelCapacityType, Payload: ChannelCapacity{}})
	// And a mistyped payload
	handler.Handle(Event{Type: ProcessStatsType, Payload: "oops"})

	// Then only the valid sample is recorded
	req.Len(rec.stats, 1)
	req.Equal(int32(42), rec.stats[0].PID)
	req.Equal(uint64(1024), rec.stats[0].Ram)
}

func TestWorkerRestartedAfterPanicHandler_Counts(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	counter := NewCounter()
	handler := NewWorkerRestartedAfterPanicHandler(log, counter)

	handler.Handle(Event{Type: RestartedAfterPanicType, Payload: WorkerRestartedAfterPanic{WorkerName: "EventFanout"}})
	handler.Handle(Event{Type: RestartedAfterPanicType, Payload: WorkerRestartedAfterPanic{WorkerName: "EventFanout"}})
	handler.Handle(Event{Type: RestartedAfterPanicType, Payload: 12})

	req.Equal(uint64(2), counter.Get(RestartedAfterPanicType))
}

func TestChannelCapacityHandler_IgnoresUnbuffered(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	handler := NewChannelCapacityHandler(log, 10)

	// Neither call may panic
	handler.Handle(Event{Type: ChannelCapacityType, Payload: ChannelCapacity{ChannelName: "events", Capacity: 0}})
	handler.Handle(Event{Type: ChannelCapacityType, Payload: ChannelCapacity{ChannelName: "events", Capacity: 100, Length: 95}})
}
