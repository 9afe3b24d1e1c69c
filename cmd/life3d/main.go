//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"life3d/internal/app"
	"life3d/internal/patterns"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "life3d:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	log, err := cfg.NewLogger(os.Stderr)
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

	game := app.New(sim, catalog, cfg.Scale, cfg.Pattern)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("life3d: " + sim.RuleName())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
