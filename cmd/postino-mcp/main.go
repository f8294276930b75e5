package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "postino/internal/adapters/mcp"
	"postino/internal/adapters/sqlite"
	"postino/internal/config"
	"postino/internal/mail"
	"postino/internal/ports"
	"postino/internal/resolve"
	"postino/internal/resource"
)

func main() {
	dbFlag := flag.String("db", config.DBPath(), `database path, or "memory" for a seed-only graph`)
	flag.Parse()

	store, closeStore, err := openStore(*dbFlag)
	if err != nil {
		log.Fatalf("postino-mcp: %v", err)
	}
	defer closeStore()

	registry := resolve.NewRegistry()
	if err := mail.Register(registry, store); err != nil {
		log.Fatalf("postino-mcp: %v", err)
	}
	boundary := resource.NewBoundary(registry, config.PageLimit(), config.PageMax())

	mcpServer := server.NewMCPServer(
		"postino-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, registry, boundary)
	mcpadapter.RegisterWriteTools(mcpServer, registry)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("postino-mcp: %v", err)
	}
}

// openStore picks the backing graph: the in-memory seed, or the same graph
// persisted at path.
func openStore(path string) (ports.Store, func() error, error) {
	if path == "" || path == "memory" {
		return mail.NewStore(), func() error { return nil }, nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	backing, err := db.Backing(mail.Scheme, mail.Seed())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return backing, db.Close, nil
}
