package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tatianab/cyber-arena/internal/battle"
	"github.com/tatianab/cyber-arena/internal/config"
	"github.com/tatianab/cyber-arena/internal/engine"
	"github.com/tatianab/cyber-arena/internal/llm"
	"github.com/tatianab/cyber-arena/internal/models"
	"github.com/tatianab/cyber-arena/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	hero, err := models.LoadHero(cfg.HeroFile)
	if err != nil {
		fmt.Printf("Error loading hero: %v\n", err)
		os.Exit(1)
	}

	client, err := llm.NewClient(ctx, cfg.GeminiAPIKey, llm.Options{
		Model:          cfg.Model,
		RequestTimeout: cfg.RequestTimeout,
		MaxRetries:     cfg.MaxRetries,
	})
	if err != nil {
		fmt.Printf("Error creating model client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	machine := battle.New(engine.NewEngine(client), hero)

	if err := tui.Run(machine, cfg.TranscriptDir); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes all diagnostics to a file. The TUI owns the terminal,
// so even warnings must stay off stderr while it runs.
func setupLogging(cfg *config.Config) {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}

	f, err := os.OpenFile("arena.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: level,
	})))
}
