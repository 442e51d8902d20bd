// Package grpcserver exposes the standard gRPC health service, with the
// serving status tracking the database connection.
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"geoMaster/internal/logging"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "geomaster"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer serves grpc.health.v1.Health. It is a suture.Service.
type HealthServer struct {
	addr     string
	db       Pinger
	interval time.Duration
	health   *health.Server
	log      zerolog.Logger

	mu   sync.Mutex
	bind net.Addr
}

func NewHealthServer(addr string, db Pinger, interval time.Duration) *HealthServer {
	if addr == "" {
		addr = ":50051"
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{addr: addr, db: db, interval: interval, health: h, log: logging.With("grpc-health")}
}

// Health returns the underlying status registry.
func (s *HealthServer) Health() healthpb.HealthServer { return s.health }

// Addr is the bound listener address once Serve is running.
func (s *HealthServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bind
}

// Probe pings the database once and updates the serving status.
func (s *HealthServer) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn().Err(err).Msg("database ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *HealthServer) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	s.mu.Lock()
	s.bind = lis.Addr()
	s.mu.Unlock()

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()
	s.log.Info().Str("address", lis.Addr().String()).Msg("gRPC health server listening")

	s.Probe(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return fmt.Errorf("grpc health server: %w", err)
		case <-ticker.C:
			s.Probe(ctx)
		case <-ctx.Done():
			s.health.Shutdown()
			done := make(chan struct{})
			go func() { srv.GracefulStop(); close(done) }()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				srv.Stop()
			}
			return ctx.Err()
		}
	}
}

func (s *HealthServer) String() string { return "grpc-health" }
