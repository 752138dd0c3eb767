package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"tailscale.com/tsnet"

	"github.com/claude/notionfit/internal/config"
	"github.com/claude/notionfit/internal/ingest"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/server"
	"github.com/claude/notionfit/internal/storage"
	"github.com/claude/notionfit/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	envPath := flag.String("env", ".env", "path to env file (optional)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("NotionFit starting", "version", Version)

	// Optional .env, applied before config so its values act as overrides
	if err := godotenv.Load(*envPath); err == nil {
		log.Info("env file loaded", "path", *envPath)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.State.Dir)
	if err != nil {
		log.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := notion.NewClient(cfg.Notion.Token)
	rec := sync.NewReconciler(client, log)
	prop := sync.NewPropagator(client, rec, cfg.Notion.HabitDatabaseID, cfg.Notion.HealthDatabaseID,
		cfg.Goals.StrictTargets(), log)
	svc := ingest.NewService(client, rec, prop, store, ingest.Config{
		SleepDatabaseID:   cfg.Notion.SleepDatabaseID,
		WorkoutDatabaseID: cfg.Notion.WorkoutDatabaseID,
		HealthDatabaseID:  cfg.Notion.HealthDatabaseID,
		LenientTargets:    cfg.Goals.LenientTargets(),
	}, log)

	srv := server.New(svc, store, cfg.Auth.SecretToken, cfg.Auth.IPWhitelist, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
