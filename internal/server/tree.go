// Package server runs the long-lived parts of the process under a suture
// supervisor tree.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"geoMaster/internal/logging"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree runs two supervisors: data (activity writer, health checks) and api
// (HTTP). They stop in order. The api layer drains first, so handlers still
// in flight can record activity before the writer stops.
type Tree struct {
	data *suture.Supervisor
	api  *suture.Supervisor
}

func NewTree(cfg TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	spec := suture.Spec{
		EventHook:        eventHook(logging.With("supervisor")),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	return &Tree{
		data: suture.New("data-layer", spec),
		api:  suture.New("api-layer", spec),
	}
}

func eventHook(log zerolog.Logger) suture.EventHook {
	return func(e suture.Event) {
		ev := log.Warn()
		if e.Type() == suture.EventTypeServicePanic {
			ev = log.Error()
		}
		ev.Fields(e.Map()).Msg(e.String())
	}
}

// AddDataService supervises a storage-side service.
func (t *Tree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddAPIService supervises a network-facing service.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve blocks until ctx is cancelled and every service has stopped. The
// data layer keeps running until the api layer has fully returned.
func (t *Tree) Serve(ctx context.Context) error {
	dataCtx, stopData := context.WithCancel(context.WithoutCancel(ctx))
	defer stopData()
	dataDone := t.data.ServeBackground(dataCtx)

	apiErr := t.api.Serve(ctx)
	stopData()
	dataErr := <-dataDone

	if apiErr != nil && !errors.Is(apiErr, context.Canceled) {
		return fmt.Errorf("api layer: %w", apiErr)
	}
	if dataErr != nil && !errors.Is(dataErr, context.Canceled) {
		return fmt.Errorf("data layer: %w", dataErr)
	}
	return ctx.Err()
}

func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- t.Serve(ctx) }()
	return errCh
}

// UnstoppedServiceReport lists services that overran the shutdown timeout.
// It blocks until both layers have terminated.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	var out []suture.UnstoppedService
	for _, sup := range []*suture.Supervisor{t.api, t.data} {
		report, err := sup.UnstoppedServiceReport()
		if err != nil {
			return nil, err
		}
		out = append(out, report...)
	}
	return out, nil
}
