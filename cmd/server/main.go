package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geoMaster/internal/activity"
	"geoMaster/internal/api"
	"geoMaster/internal/config"
	"geoMaster/internal/db"
	"geoMaster/internal/experiment"
	grpcserver "geoMaster/internal/grpc"
	"geoMaster/internal/logging"
	"geoMaster/internal/server"
	"geoMaster/internal/service"
	"geoMaster/models"
	"geoMaster/repository"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent schema migration and exit")
	flag.Parse()

	if err := run(*rollback); err != nil {
		logging.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(rollback bool) error {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.Info().Str("config", cfg.String()).Msg("configuration loaded")

	if rollback {
		return rollbackSchema(cfg.Database.Path)
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logging.Error().Err(err).Msg("close db")
		}
	}()

	store, err := db.OpenActivityStore(cfg.Database.ActivityDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("close activity store")
		}
	}()

	runner, err := experiment.Open()
	if err != nil {
		return err
	}
	defer runner.Close()

	users := repository.NewUserRepository(d)
	writer := activity.NewWriter(repository.NewActivityRepository(store), activity.DefaultBufferSize)
	authSvc := service.NewAuthService(users, writer, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	features := service.NewFeatureService(repository.NewFeatureRepository(d), writer)

	router := api.NewRouter(api.Deps{
		Auth:              authSvc,
		Features:          features,
		Activity:          writer,
		Users:             users,
		Perf:              runner,
		DB:                d,
		JWTSecret:         cfg.Auth.JWTSecret,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		RateLimitRequests: cfg.HTTP.RateLimitRequests,
		RateLimitWindow:   cfg.HTTP.RateLimitWindow,
		PerfSize:          cfg.Experiment.Size,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	tree := server.NewTree(server.DefaultTreeConfig())
	tree.AddDataService(writer)
	if cfg.GRPC.HealthAddress != "" {
		tree.AddDataService(grpcserver.NewHealthServer(cfg.GRPC.HealthAddress, d, 10*time.Second))
	}
	tree.AddAPIService(server.NewHTTPService(httpServer, 5*time.Second))

	writer.Record(models.ActionSystemStart, models.SystemUser, map[string]any{"address": cfg.HTTP.Address})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("address", cfg.HTTP.Address).Msg("HTTP server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("services did not stop in time")
	}
	logging.Info().Msg("shutdown complete")
	return nil
}

// rollbackSchema reverts the newest applied migration of the database at path.
func rollbackSchema(path string) error {
	d, err := db.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := db.RollbackLast(d); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
