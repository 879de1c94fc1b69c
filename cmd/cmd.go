// Package cmd provides CLI commands for Sibyl.
//
// Commands:
//   - serve: HTTP API server for document ingest and grounded querying
//   - version: build information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Execute is the main entry point for the sibyl CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Optional .env for local development; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Sibyl - Retrieval-augmented question answering over your documents")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sibyl serve        Start HTTP API server (default port: 3001)")
	fmt.Println("  sibyl --version    Show version information")
	fmt.Println("  sibyl --help       Show this help")
	fmt.Println()
	fmt.Println("API Endpoints:")
	fmt.Println("  POST /documents    Add a document to the knowledge base")
	fmt.Println("  GET  /documents    List all stored documents")
	fmt.Println("  POST /query        Ask a question grounded on stored documents")
	fmt.Println("  GET  /health       Liveness probe")
	fmt.Println("  GET  /ready        Readiness probe (database ping)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_URL       Required: PostgreSQL connection string (pgvector enabled)")
	fmt.Println("  OPENAI_API_KEY     Required: API key for the embedding/chat service")
	fmt.Println("  SIBYL_PORT         Optional: HTTP port (default 3001)")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
}
