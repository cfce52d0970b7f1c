package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/namegate/internal/api"
	"github.com/creamcroissant/namegate/internal/bootstrap"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/job"
	"github.com/creamcroissant/namegate/internal/migrations"
	"github.com/creamcroissant/namegate/internal/repository/sqlite"
	"github.com/creamcroissant/namegate/internal/service"
	"github.com/creamcroissant/namegate/internal/support/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Namegate server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		return err
	}

	infra, err := bootstrap.BuildInfrastructure(cfg, logger)
	if err != nil {
		return err
	}

	store := sqlite.NewStore(db)

	checkOpts := service.CheckOptions{
		Policy: cfg.Policy.Rules(),
		Logs:   store.CheckLogs(),
		Cache:  infra.Cache,
		Audit:  infra.Audit,
	}
	if cfg.RateLimit.Enabled {
		checkOpts.Limiter = infra.RateLimiter
		checkOpts.RateLimit = cfg.RateLimit.Limit
		checkOpts.RateWindow = cfg.RateLimit.Window
	}
	checkService := service.NewCheckService(checkOpts)

	scheduler := job.NewScheduler(logger)
	if cfg.Retention.MaxAge > 0 {
		cleanupJob := job.NewCheckLogCleanupJob(store.CheckLogs(), cfg.Retention.MaxAge, logger)
		if _, err := scheduler.Register(cfg.Retention.Schedule, cleanupJob); err != nil {
			return err
		}
	}
	scheduler.Start()

	router := api.NewRouter(logger, api.Services{
		Check: checkService,
		Logs:  store.CheckLogs(),
		Token: infra.Token,
	}, cfg.Metrics)

	server := bootstrap.NewHTTPServer(cfg, router)

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTP.Addr, "env", cfg.Log.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down http server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server exited cleanly")
	return nil
}
