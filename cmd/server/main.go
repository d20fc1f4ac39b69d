// Package main provides the entry point for the autonomous cognitive
// scheduler's MCP server.
//
// This server is designed to be spawned as a child process by Claude Desktop
// and communicates via stdio using the Model Context Protocol. It should not
// be run manually by users.
//
// The server runs the cognitive scheduler (idle detection, retrospection,
// knowledge exploration and synthesis cadences) as a background service and
// exposes a handful of tools for inspecting and directing it.
//
// Environment variables:
//   - DEBUG: Set to "true" to enable debug logging
//   - UT_SERVER_WORKER_COUNT, UT_IDLE_MIN_DURATION_SECONDS, UT_IDLE_CHECK_INTERVAL_SECONDS, ...: see internal/config
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	if os.Getenv("DEBUG") == "true" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("Starting cognitive scheduler server in debug mode...")
	}

	components, err := InitializeServer()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	defer func() {
		if err := components.Cleanup(); err != nil {
			log.Printf("Warning: failed to clean up server components: %v", err)
		}
	}()

	components.Scheduler.Start()
	log.Println("Cognitive scheduler started")

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    components.Config.Server.Name,
		Version: components.Config.Server.Version,
	}, nil)
	log.Println("Created MCP server")

	components.Server.RegisterTools(mcpServer)
	log.Println("Registered tools: get-status, schedule-exploration, perform-retrospection, recommend-paths, record-path-outcome, list-paths")

	transport := &mcp.StdioTransport{}
	log.Println("Created stdio transport")

	ctx := context.Background()
	log.Println("Starting MCP server...")
	if err := mcpServer.Run(ctx, transport); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
