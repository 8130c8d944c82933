package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jeyasaravanan18/synctube-backend/infrastructure/grpc/server"
	"github.com/Jeyasaravanan18/synctube-backend/infrastructure/websocket"
	"github.com/Jeyasaravanan18/synctube-backend/internal"
	"github.com/Jeyasaravanan18/synctube-backend/observability"
	"github.com/Jeyasaravanan18/synctube-backend/repositories"
	"github.com/Jeyasaravanan18/synctube-backend/runtime"
	"github.com/Jeyasaravanan18/synctube-backend/services"
	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const timelineSize = 200

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that every defer runs before exiting.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env is fine, the environment alone is enough.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	validate := validator.New()
	if err := config.Validate(validate); err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Audit log (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	repository := repositories.NewRoomEventRepository(db, logger, config.LimitEvents)

	// 3. Runtime
	monitoring := observability.NewMonitoringManager(logger, config.MetricInterval)
	orchestrator := runtime.NewOrchestrator(logger, repository, monitoring, validate, runtime.Options{
		BufferSize:           config.BufferSize,
		SinkTimeout:          config.SinkTimeout,
		RestartInterval:      config.RestartInterval,
		MetricInterval:       config.MetricInterval,
		LowCapacityThreshold: config.LowCapacityThreshold,
		TimelineSize:         timelineSize,
		EnableModeration:     config.EnableModeration,
		CharReplacement:      charReplacement,
	})
	relayService := services.NewRelayService(orchestrator)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := orchestrator.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("orchestrator failed to start: %w", err)
	}
	defer orchestrator.Stop()

	errChan := make(chan error, 2)

	// 5. HTTP: websocket relay and debug endpoints
	mux := http.NewServeMux()
	mux.Handle(config.WsPath, websocket.NewRelayServer(logger, relayService, monitoring, websocket.Options{
		OriginPatterns: config.Origins(),
		ReadLimit:      config.ReadLimit,
		BufferSize:     config.ConnectionBufferSize,
		WriteTimeout:   config.WriteTimeout,
		PingInterval:   config.PingInterval,
	}))
	if config.DebugEndpoints {
		internal.NewDebugServer(logger, relayService, monitoring, orchestrator.Timeline(), repository).Register(mux)
		logger.Info("Debug endpoints available", "url", fmt.Sprintf("http://%s/debug/stats", config.Address()))
	}

	httpServer := &http.Server{
		Addr:              config.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		// Hijacked websocket connections are not tracked by Shutdown, they stop with ctx.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logger.Info("Signaling server running", "address", config.Address(), "path", config.WsPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. gRPC health, optional
	var healthServer *server.HealthServer
	if config.GrpcPort > 0 {
		listener, err := net.Listen("tcp", config.GrpcAddress())
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.GrpcAddress(), err)
		}
		healthServer = server.NewHealthServer(logger)
		go func() {
			if err := healthServer.Serve(listener); err != nil {
				errChan <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
		healthServer.SetServing(true)
	}

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if healthServer != nil {
		healthServer.Stop(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server did not stop cleanly", "error", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

// buildBadgerOpts keeps the audit log in memory when no path is configured.
func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	var options badger.Options
	if config.BadgerFilepath == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		options = badger.DefaultOptions(config.BadgerFilepath)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
