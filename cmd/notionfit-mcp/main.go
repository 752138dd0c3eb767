package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/notionfit/internal/config"
	"github.com/claude/notionfit/internal/mcp"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/storage"
	"github.com/claude/notionfit/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envPath := flag.String("env", ".env", "path to env file (optional)")
	flag.Parse()

	// Stdout carries the MCP protocol, so logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_ = godotenv.Load(*envPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.State.Dir)
	if err != nil {
		log.Warn("state store unavailable, ingest log tools disabled", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	client := notion.NewClient(cfg.Notion.Token)
	rec := sync.NewReconciler(client, log)

	s := mcp.New(rec, store, mcp.Databases{
		Health:  cfg.Notion.HealthDatabaseID,
		Workout: cfg.Notion.WorkoutDatabaseID,
		Sleep:   cfg.Notion.SleepDatabaseID,
		Habit:   cfg.Notion.HabitDatabaseID,
	}, Version, log)

	log.Info("NotionFit MCP server starting", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
