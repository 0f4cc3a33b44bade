// Command marketsim runs the autonomous market simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/mini-market/internal/api"
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/persistence"
)

func main() {
	configPath := flag.String("config", "marketsim.yaml", "path to the YAML config file")
	envPath := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := config.FromEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rng := entropy.New(cfg.Seed)
	slog.Info("marketsim starting", "seed", rng.Seed(), "config", *configPath)

	// ── World ─────────────────────────────────────────────────────────
	sim, err := engine.NewSimulation(cfg, rng)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}

	// ── Stats database ────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.StatsDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.StatsDB), 0755); err != nil {
			slog.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
		db, err = persistence.Open(cfg.StatsDB)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.StartRun(rng.Seed()); err != nil {
			slog.Error("failed to register run", "error", err)
		}
		sim.Sink = db
		slog.Info("database opened", "path", cfg.StatsDB, "run", db.RunID())
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(cfg.Clock)
	eng.OnTick = sim.Tick
	eng.Every(cfg.Clock.MortalityEvery, sim.Mortality)
	eng.Every(cfg.Clock.ReportEvery, sim.Report)

	// ── HTTP API ──────────────────────────────────────────────────────
	var apiServer *api.Server
	if cfg.APIAddr != "" {
		apiServer = &api.Server{Sim: sim, DB: db, Addr: cfg.APIAddr}
		apiServer.Start()
	}

	// ── Run ───────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nMarket is open: %d persons, %d shops across %d cities.\n",
		cfg.Population, cfg.Shops, cfg.Cities())
	if apiServer != nil {
		fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.APIAddr)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("API shutdown failed", "error", err)
		}
		cancel()
	}

	// Final report so the last interval is not lost.
	sim.Report(eng.Tick, eng.Elapsed)
	fmt.Println("Simulation stopped.")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
