package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/gesturecast/internal/core/observability/log"
	"github.com/zeusync/gesturecast/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config; defaults are used when empty")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := injector.InitializeApp(ctx, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing:", err)
		os.Exit(1)
	}
	defer func() { _ = app.Logger.Sync() }()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	if err = app.Server.Start(ctx); err != nil {
		app.Logger.Error("Error starting server", log.Error(err))
		return
	}

	sig := <-stopCh
	app.Logger.Info("Shutting down", log.String("signal", sig.String()))
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer stop()
	if err = app.Server.Stop(stopCtx); err != nil {
		app.Logger.Error("Error stopping server", log.Error(err))
	}
}
