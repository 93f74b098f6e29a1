package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the simulation and returns the process exit code.
// Deferred cleanup (profiles, output files) always runs before exit.
func run(args []string) int {
	// CLI flags
	fs := flag.NewFlagSet("habitat", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := fs.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	tickInterval := fs.Duration("tick-interval", -1, "Pause between ticks (negative = use config)")
	logStats := fs.Bool("log-stats", false, "Output stats via slog")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	check := fs.Bool("check", false, "Validate simulation state after every tick")
	dump := fs.Bool("dump", false, "Log the initial population and exit")
	profileMode := fs.String("profile", "", "Write a profile to the working directory (cpu|mem)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		slog.Error("unknown profile mode", "profile", *profileMode)
		return 2
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	interval := cfg.Derived.TickInterval
	if *tickInterval >= 0 {
		interval = *tickInterval
	}

	g := game.NewGame(cfg, game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	defer g.Close()

	g.Initialize()

	if *dump {
		g.LogPopulation()
		return 0
	}

	// Signals become a stop message, handled between ticks
	control := make(chan game.Message, 1)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		sig := <-sigs
		slog.Info("signal received", "signal", sig.String())
		control <- game.Stop{}
	}()

	cols, rows := g.Size()
	slog.Info("starting simulation",
		"seed", rngSeed,
		"cols", cols,
		"rows", rows,
		"max_ticks", *maxTicks,
		"tick_interval", interval,
		"check", *check,
	)

	err := g.Run(context.Background(), control, game.RunOptions{
		TickInterval: interval,
		MaxTicks:     *maxTicks,
		Check:        *check,
	})

	veg, herbs, carns := g.Counts()
	slog.Info("simulation finished",
		"tick", g.TickCount(),
		"vegetation", veg,
		"herbivores", herbs,
		"carnivores", carns,
	)

	if err != nil {
		slog.Error("simulation failed", "error", err)
		return 1
	}
	return 0
}
