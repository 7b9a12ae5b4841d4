package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"arena/internal/config"
	"arena/internal/control"
	"arena/internal/daemon"
	"arena/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	controlServer, err := control.NewServer(ctx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		logger.Error("start control server", logging.Error(err))
		return
	}
	defer controlServer.Close()
	controlServer.Serve()

	logger.Info("arenad ready",
		logging.String("socket", cfg.Paths.SocketPath),
		logging.String("runtime_url", cfg.Runtime.BaseURL),
	)

	<-ctx.Done()
	logger.Info("arenad shutting down")
}
