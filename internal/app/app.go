// Package app provides application initialization and dependency wiring.
//
// App is the container that owns the database pool, the LLM client, the
// document store, and the two pipeline orchestrators. Setup builds them in
// dependency order; Close releases them in reverse.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sibyl0/sibyl/internal/config"
	"github.com/sibyl0/sibyl/internal/database"
	"github.com/sibyl0/sibyl/internal/knowledge"
	"github.com/sibyl0/sibyl/internal/llm"
	"github.com/sibyl0/sibyl/internal/rag"
)

// App is the core application container.
type App struct {
	Config *config.Config

	Pool      *pgxpool.Pool
	Knowledge *knowledge.Store
	LLM       *llm.Client
	System    *rag.System
	Indexer   *rag.Indexer

	logger *slog.Logger
}

// Setup creates and initializes the application. The pool is the only
// resource owning a connection; call Close to release it.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store, err := knowledge.New(pool, cfg.EmbeddingDim, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating document store: %w", err)
	}

	client := llm.New(llm.Config{
		BaseURL:        cfg.BaseURL,
		APIKey:         cfg.APIKey,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		MaxTokens:      cfg.MaxTokens,
	}, logger)

	system, err := rag.NewSystem(client, store, client, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating query system: %w", err)
	}

	indexer, err := rag.NewIndexer(client, store, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating indexer: %w", err)
	}

	return &App{
		Config:    cfg,
		Pool:      pool,
		Knowledge: store,
		LLM:       client,
		System:    system,
		Indexer:   indexer,
		logger:    logger,
	}, nil
}

// Close gracefully shuts down all resources. Safe to call on a partially
// initialized App.
func (a *App) Close() error {
	if a.Pool != nil {
		a.Pool.Close()
		a.logger.Debug("database pool closed")
	}
	return nil
}
