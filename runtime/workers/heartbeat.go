package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker samples the relay process (CPU, RAM, status) at a fixed
// interval and pushes the result on the telemetry channel.
type HeartbeatWorker struct {
	log           *slog.Logger
	telemetryChan chan event.Event
	interval      time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, telemetryChan chan event.Event, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:           log,
		telemetryChan: telemetryChan,
		interval:      interval,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pid := int32(os.Getpid())
	p, err := process.NewProcess(pid)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "error", err)
				continue
			}
			select {
			case w.telemetryChan <- event.Event{
				Type:      event.ProcessStatsType,
				CreatedAt: time.Now().UTC(),
				Payload:   event.ProcessStats{PID: pid, Status: status, Cpu: cpu, Ram: rss},
			}:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

// getSelfStats retrieves memory, CPU and OS status for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
