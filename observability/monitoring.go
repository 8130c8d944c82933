// Package observability aggregates the relay counters exposed on the debug endpoints.
package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
)

var _ contract.EventSink = (*MonitoringManager)(nil)
var _ contract.Worker = (*MonitoringManager)(nil)

// MonitoringStats is the snapshot served to operators.
type MonitoringStats struct {
	ActiveConnections int64   `json:"active_connections"`
	TotalConnections  uint64  `json:"total_connections"`
	ActiveRooms       int     `json:"active_rooms"`
	RoomsCreated      uint64  `json:"rooms_created"`
	RoomsClosed       uint64  `json:"rooms_closed"`
	JoinsAccepted     uint64  `json:"joins_accepted"`
	JoinsRejected     uint64  `json:"joins_rejected"`
	HostsReassigned   uint64  `json:"hosts_reassigned"`
	MessagesRelayed   uint64  `json:"messages_relayed"`
	BytesRelayed      uint64  `json:"bytes_relayed"`
	RelayBytesPerSec  float64 `json:"relay_bytes_per_sec"`
	MalformedMessages uint64  `json:"malformed_messages"`
	IgnoredMessages   uint64  `json:"ignored_messages"`

	PID        int32   `json:"pid"`
	PIDStatus  string  `json:"pid_status"`
	CpuPercent float64 `json:"cpu_percent"`
	RamBytes   uint64  `json:"ram_bytes"`
	AllocMemMb uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
	Goroutines int     `json:"goroutines"`
}

// MonitoringManager counts relay activity. Counters are atomics updated from
// the hot path; the derived figures are refreshed on each tick of Run.
type MonitoringManager struct {
	log         *slog.Logger
	interval    time.Duration
	roomCounter func() int

	mu          sync.RWMutex
	latestStats MonitoringStats
	lastCheck   time.Time
	lastBytes   uint64

	activeConnections atomic.Int64
	totalConnections  atomic.Uint64
	roomsCreated      atomic.Uint64
	roomsClosed       atomic.Uint64
	joinsAccepted     atomic.Uint64
	joinsRejected     atomic.Uint64
	hostsReassigned   atomic.Uint64
	messagesRelayed   atomic.Uint64
	bytesRelayed      atomic.Uint64
	malformed         atomic.Uint64
	ignored           atomic.Uint64
}

func NewMonitoringManager(log *slog.Logger, interval time.Duration) *MonitoringManager {
	return &MonitoringManager{
		log:       log,
		interval:  interval,
		lastCheck: time.Now(),
	}
}

// WithRoomCounter sets the gauge reporting the number of live rooms.
func (mm *MonitoringManager) WithRoomCounter(counter func() int) *MonitoringManager {
	mm.roomCounter = counter
	return mm
}

func (mm *MonitoringManager) IncrConnections() {
	mm.activeConnections.Add(1)
	mm.totalConnections.Add(1)
}

func (mm *MonitoringManager) DecrConnections() {
	mm.activeConnections.Add(-1)
}

func (mm *MonitoringManager) IncrMalformed() {
	mm.malformed.Add(1)
}

func (mm *MonitoringManager) IncrIgnored() {
	mm.ignored.Add(1)
}

// Consume counts room lifecycle events.
func (mm *MonitoringManager) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.RoomCreated:
		mm.roomsCreated.Add(1)
	case event.RoomClosed:
		mm.roomsClosed.Add(1)
	case event.ParticipantJoined:
		mm.joinsAccepted.Add(1)
	case event.JoinRejected:
		mm.joinsRejected.Add(1)
	case event.HostAssigned:
		mm.hostsReassigned.Add(1)
	case event.MessageRelayed:
		mm.messagesRelayed.Add(1)
		mm.bytesRelayed.Add(uint64(evt.Size * evt.Recipients))
	}
	return nil
}

func (mm *MonitoringManager) RecordProcessStats(stats event.ProcessStats) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats.PID = stats.PID
	mm.latestStats.PIDStatus = stats.Status
	mm.latestStats.CpuPercent = stats.Cpu
	mm.latestStats.RamBytes = stats.Ram
}

// Run refreshes the derived figures until ctx is canceled.
func (mm *MonitoringManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return nil
		case <-ticker.C:
			mm.updateStats()
		}
	}
}

func (mm *MonitoringManager) updateStats() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	now := time.Now()
	bytes := mm.bytesRelayed.Load()
	if duration := now.Sub(mm.lastCheck).Seconds(); duration > 0 {
		mm.latestStats.RelayBytesPerSec = float64(bytes-mm.lastBytes) / duration
	}
	mm.lastCheck = now
	mm.lastBytes = bytes

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
	mm.latestStats.Goroutines = runtime.NumGoroutine()

	mm.log.Debug("Stats updated",
		"relay_bytes_per_sec", mm.latestStats.RelayBytesPerSec,
		"active_connections", mm.activeConnections.Load(),
		"mem_mb", mm.latestStats.AllocMemMb)
}

// GetLatest merges the live counters into the last computed snapshot.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	stats := mm.latestStats
	mm.mu.RUnlock()

	stats.ActiveConnections = mm.activeConnections.Load()
	stats.TotalConnections = mm.totalConnections.Load()
	stats.RoomsCreated = mm.roomsCreated.Load()
	stats.RoomsClosed = mm.roomsClosed.Load()
	stats.JoinsAccepted = mm.joinsAccepted.Load()
	stats.JoinsRejected = mm.joinsRejected.Load()
	stats.HostsReassigned = mm.hostsReassigned.Load()
	stats.MessagesRelayed = mm.messagesRelayed.Load()
	stats.BytesRelayed = mm.bytesRelayed.Load()
	stats.MalformedMessages = mm.malformed.Load()
	stats.IgnoredMessages = mm.ignored.Load()
	if mm.roomCounter != nil {
		stats.ActiveRooms = mm.roomCounter()
	}
	return stats
}
