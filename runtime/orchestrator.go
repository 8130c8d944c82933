// Package runtime owns the rooms and connection sessions of the relay, and
// the supervised pipeline that observes them.
package runtime

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/contract"
	"github.com/Jeyasaravanan18/synctube-backend/domain"
	"github.com/Jeyasaravanan18/synctube-backend/domain/event"
	"github.com/Jeyasaravanan18/synctube-backend/moderation"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/projection"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/Jeyasaravanan18/synctube-backend/runtime/workers"
	"github.com/Jeyasaravanan18/synctube-backend/sink"
	"github.com/go-playground/validator/v10"
)

//go:embed censored/*
var censoredFolder embed.FS

type Options struct {
	BufferSize           int
	SinkTimeout          time.Duration
	RestartInterval      time.Duration
	MetricInterval       time.Duration
	LowCapacityThreshold int
	TimelineSize         int
	EnableModeration     bool
	CharReplacement      rune
}

// Orchestrator wires the registry to the observability pipeline and hands
// out one Session per transport connection.
type Orchestrator struct {
	mu           sync.Mutex
	log          *slog.Logger
	opts         Options
	supervisor   *workers.Supervisor
	registry     *Registry
	monitoring   *observability.MonitoringManager
	timeline     *projection.Timeline
	repository   repositories.IRoomEventRepository
	validate     *validator.Validate
	moderator    contract.NameModerator
	domainEvents chan event.DomainEvent
	telemetry    chan event.Event
	done         chan struct{}
}

// NewOrchestrator builds the runtime. A nil repository disables the audit log.
func NewOrchestrator(log *slog.Logger, repository repositories.IRoomEventRepository,
	monitoring *observability.MonitoringManager, validate *validator.Validate, opts Options) *Orchestrator {
	domainEvents := make(chan event.DomainEvent, opts.BufferSize)
	telemetry := make(chan event.Event, opts.BufferSize)
	registry := NewRegistry(NewChannelPublisher(domainEvents, log), log)
	monitoring.WithRoomCounter(registry.Len)

	return &Orchestrator{
		log:          log,
		opts:         opts,
		supervisor:   workers.NewSupervisor(log, telemetry, opts.RestartInterval),
		registry:     registry,
		monitoring:   monitoring,
		timeline:     projection.NewTimeline(opts.TimelineSize),
		repository:   repository,
		validate:     validate,
		domainEvents: domainEvents,
		telemetry:    telemetry,
	}
}

func (o *Orchestrator) Registry() *Registry { return o.registry }

func (o *Orchestrator) Timeline() *projection.Timeline { return o.timeline }

// NewSession returns the protocol handler of a freshly accepted connection.
func (o *Orchestrator) NewSession(conn contract.Conn) contract.Session {
	o.mu.Lock()
	moderator := o.moderator
	o.mu.Unlock()
	return NewSession(conn, o.registry, moderator, o.monitoring, o.validate, o.log)
}

// Rooms lists the live rooms.
func (o *Orchestrator) Rooms() []domain.RoomSnapshot {
	return o.registry.Snapshot()
}

// Start loads the moderation dictionaries when enabled and launches the
// supervised workers in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	// Heavy tasks like loading files and building the automaton happen before locking.
	var moderator contract.NameModerator
	if o.opts.EnableModeration {
		m, err := o.prepareModeration("censored")
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
		moderator = m
	}

	o.mu.Lock()
	if o.done != nil {
		o.mu.Unlock()
		return nil
	}
	o.moderator = moderator
	o.supervisor.Add(o.prepareWorkers()...)
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	go func() {
		defer close(done)
		o.supervisor.Run(ctx)
	}()
	return nil
}

func (o *Orchestrator) prepareModeration(dir string) (*moderation.Moderator, error) {
	data, err := NewCensoredLoader(censoredFolder).LoadAll(dir)
	if err != nil {
		return nil, err
	}
	o.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	o.log.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))
	return moderation.NewModerator(data.Words, o.opts.CharReplacement, o.log)
}

func (o *Orchestrator) prepareWorkers() []contract.Worker {
	sinks := []contract.EventSink{o.monitoring, o.timeline}
	if o.repository != nil {
		sinks = append(sinks, sink.NewDiskSink(o.repository, o.log))
	}

	handlers := []event.Handler{
		event.NewChannelCapacityHandler(o.log, o.opts.LowCapacityThreshold),
		event.NewWorkerRestartedAfterPanicHandler(o.log, event.NewCounter()),
		event.NewProcessStatsHandler(o.log, o.monitoring),
	}

	return []contract.Worker{
		workers.NewEventFanout(o.log, o.domainEvents, o.opts.SinkTimeout, sinks...),
		workers.NewTelemetryWorker(o.log, o.telemetry, handlers...),
		workers.NewQueueDepthWorker(o.log, o.telemetry, o.opts.MetricInterval,
			workers.WatchQueue("domain_events", o.domainEvents),
			workers.WatchQueue("telemetry", o.telemetry)),
		workers.NewHeartbeatWorker(o.log, o.telemetry, o.opts.MetricInterval),
		o.monitoring,
	}
}

// Stop cancels the supervised workers and waits for them to return.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()

	o.mu.Lock()
	done := o.done
	o.mu.Unlock()
	if done != nil {
		<-done
	}
	o.log.Debug("Orchestrator workers stopped")
}
