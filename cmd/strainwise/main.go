package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/HerbHall/strainwise/docs" // Swagger document
	"github.com/HerbHall/strainwise/internal/config"
	"github.com/HerbHall/strainwise/internal/server"
	"github.com/HerbHall/strainwise/internal/version"
)

//	@title			strainwise API
//	@version		1.0
//	@description	Cannabis strain recommendations from a curated catalog.
//	@BasePath		/api/v1

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strainwise: %v\n", err)
		os.Exit(1)
	}
	settings, err := cfg.Settings()
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "strainwise: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(settings.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strainwise: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	logger.Info("strainwise server starting", zap.String("version", version.Short()))

	app, err := build(context.Background(), settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer app.Close()

	srv := server.New(server.Config{
		Addr:    settings.Server.Addr(),
		PerHour: app.perHour,
		PerDay:  app.perDay,
	}, logger, app.handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("strainwise server ready", zap.String("addr", settings.Server.Addr()))

	// Wait for shutdown signal or a listener failure.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("strainwise server stopped")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
