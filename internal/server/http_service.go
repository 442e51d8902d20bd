package server

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"geoMaster/internal/logging"
)

// HTTPServer is satisfied by *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPService runs an HTTP server under the supervisor. When its context is
// cancelled it lets in-flight requests finish for up to drain, then closes
// whatever connections remain.
type HTTPService struct {
	srv   HTTPServer
	drain time.Duration
	log   zerolog.Logger
}

func NewHTTPService(srv HTTPServer, drain time.Duration) *HTTPService {
	if drain <= 0 {
		drain = 10 * time.Second
	}
	return &HTTPService{srv: srv, drain: drain, log: logging.With("http")}
}

func (s *HTTPService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() { listenErr <- s.srv.ListenAndServe() }()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
	defer cancel()
	if err := s.srv.Shutdown(stopCtx); err != nil {
		s.log.Warn().Err(err).Dur("drain", s.drain).Msg("drain incomplete, closing connections")
		_ = s.srv.Close()
	}
	// ListenAndServe has returned http.ErrServerClosed by now.
	<-listenErr
	return ctx.Err()
}

func (s *HTTPService) String() string { return "http-server" }
