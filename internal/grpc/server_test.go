package grpcserver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"geoMaster/internal/testutil"
)

type flakyDB struct{ down atomic.Bool }

func (f *flakyDB) PingContext(context.Context) error {
	if f.down.Load() {
		return errors.New("database is down")
	}
	return nil
}

func status(t *testing.T, s *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestProbe_FollowsDatabase(t *testing.T) {
	db := &flakyDB{}
	s := NewHealthServer("127.0.0.1:0", db, time.Hour)

	if got := status(t, s, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("initial status = %v, want NOT_SERVING", got)
	}
	s.Probe(context.Background())
	if got := status(t, s, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status after ping = %v, want SERVING", got)
	}
	db.down.Store(true)
	s.Probe(context.Background())
	if got := status(t, s, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status with db down = %v, want NOT_SERVING", got)
	}
}

func TestServe_AnswersHealthChecks(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "grpc_health_serve")
	s := NewHealthServer("127.0.0.1:0", d, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for s.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn, err := grpc.NewClient(s.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	var last healthpb.HealthCheckResponse_ServingStatus
	for time.Now().Before(deadline) {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		if err == nil {
			last = resp.GetStatus()
			if last == healthpb.HealthCheckResponse_SERVING {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	if last != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v, want SERVING", last)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
