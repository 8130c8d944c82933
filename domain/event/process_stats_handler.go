package event

import (
	"log/slog"

	"github.com/Jeyasaravanan18/synctube-backend/errors"
)

// ProcessStatsRecorder receives the sampled process statistics.
type ProcessStatsRecorder interface {
	RecordProcessStats(stats ProcessStats)
}

// ProcessStatsHandler forwards heartbeat samples to the monitoring layer.
type ProcessStatsHandler struct {
	log      *slog.Logger
	recorder ProcessStatsRecorder
}

func NewProcessStatsHandler(log *slog.Logger, recorder ProcessStatsRecorder) *ProcessStatsHandler {
	return &ProcessStatsHandler{log: log, recorder: recorder}
}

func (h ProcessStatsHandler) Handle(event Event) {
	if event.Type != ProcessStatsType {
		return
	}
	payload, ok := event.Payload.(ProcessStats)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.log.Debug("Process stats",
		"pid", payload.PID,
		"status", payload.Status,
		"cpu", payload.Cpu,
		"ram_bytes", payload.Ram)
	h.recorder.RecordProcessStats(payload)
}
