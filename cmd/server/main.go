package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"kanban-task-api/internal/config"
	"kanban-task-api/internal/database"
	"kanban-task-api/internal/logging"
	"kanban-task-api/internal/realtime"
	"kanban-task-api/internal/routes"
	"kanban-task-api/internal/version"

	"github.com/charmbracelet/log"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.PrintVersion {
		fmt.Println(version.String())
		return
	}

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Format = cfg.LogFormat
	logger := logging.New(os.Stderr, opts)
	gin.SetMode(cfg.GinMode)

	if cfg.ConfigFile != "" {
		logger.Info("loaded config file", "path", cfg.ConfigFile)
	}

	// Init database
	db, err := database.Open(cfg.DBPath, logging.NewGormLogger(logger))
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.DBPath, "err", err)
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", "err", err)
	}

	hub := realtime.NewHub(logger.WithPrefix("events"))
	ginRoutes := routes.SetupRoutes(db, hub, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", "addr", cfg.Addr, "err", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath, "version", version.String())
	logger.Info("API endpoints:")
	for _, r := range routes.List(ginRoutes) {
		logger.Infof("  %-6s %s", r.Method, r.Path)
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout.Duration,
		map[string]gfshutdown.Operation{
			// one operation so the order is fixed: stop accepting requests,
			// drop board clients, then release the database
			"server": func(ctx context.Context) error {
				logger.Info("graceful shutdown initiated")
				err := srv.Shutdown(ctx)
				hub.Close()
				return errors.Join(err, database.Close(db))
			},
		},
	)

	exitCode := <-wait
	logger.Info("server exited", "code", exitCode)
	os.Exit(exitCode)
}
