package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"life3d/internal/app"
	"life3d/internal/patterns"
	"life3d/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "life3d-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	logFile := ""
	cfg.Bind(flag.CommandLine)
	flag.StringVar(&logFile, "log-file", logFile, "write logs to this file (the terminal is owned by the viewer)")
	flag.Parse()

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log, err := cfg.NewLogger(out)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	catalog := patterns.Default()
	sim, err := cfg.NewSimulation(log, catalog)
	if err != nil {
		return err
	}
	defer sim.Close()

	ms, err := app.StartMetrics(cfg.Metrics, sim, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := ms.Close(ctx); err != nil {
			log.Warn("metrics shutdown", "err", err)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := tui.New(screen, sim, catalog, cfg.Pattern)
	if err := view.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
