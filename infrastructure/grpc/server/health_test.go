package server

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServer_Reports_Serving_Status(t *testing.T) {
	req := require.New(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	s := NewHealthServer(slog.New(slog.DiscardHandler))
	go func() { _ = s.Serve(listener) }()
	defer s.Stop(context.Background())

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Given the relay has not started yet
	res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: RelayServiceName})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, res.GetStatus())

	// When it is ready
	s.SetServing(true)

	// Then both the relay and the server report SERVING
	res, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: RelayServiceName})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_SERVING, res.GetStatus())
	res, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}
