// Package mcp exposes the Notion-backed fitness records to agents over
// the Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/notionfit/internal/storage"
	"github.com/claude/notionfit/internal/sync"
)

// Databases names the Notion databases the tools read from.
type Databases struct {
	Health  string
	Workout string
	Sleep   string
	Habit   string
}

// New creates an MCP server with all tools registered. store may be nil,
// which disables the ingest log tool's data.
func New(rec *sync.Reconciler, store *storage.Store, dbs Databases, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("NotionFit", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("NotionFit relay server. Query the daily habit tracker, sleep records, health records, and workout sessions stored in Notion, and inspect the local ingest log."),
	)

	h := &handlers{rec: rec, store: store, dbs: dbs, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDailySummary, Handler: h.getDailySummary},
		server.ServerTool{Tool: toolGetSleepRecord, Handler: h.getSleepRecord},
		server.ServerTool{Tool: toolGetHealthRecord, Handler: h.getHealthRecord},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolListRecentIngests, Handler: h.listRecentIngests},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	rec   *sync.Reconciler
	store *storage.Store
	dbs   Databases
	log   *slog.Logger
}
