package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// IndexerStore is the slice of the document store the ingest path needs.
type IndexerStore interface {
	Insert(ctx context.Context, content string, embedding []float32, metadata map[string]any) (int64, error)
}

// Indexer orchestrates the ingest path: validate, embed, store.
// The pipeline is linear; a failure at any stage aborts the whole operation,
// so the store is never written with a vector that failed to compute.
type Indexer struct {
	embedder Embedder
	store    IndexerStore
	logger   *slog.Logger
}

// NewIndexer creates an ingest orchestrator. logger may be nil.
func NewIndexer(embedder Embedder, store IndexerStore, logger *slog.Logger) (*Indexer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{embedder: embedder, store: store, logger: logger}, nil
}

// Ingest embeds content and stores it with optional metadata, returning the
// new document id. Empty content fails with ErrInvalidInput before any
// remote call.
func (i *Indexer) Ingest(ctx context.Context, content string, metadata map[string]any) (int64, error) {
	if strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("%w: content is empty", ErrInvalidInput)
	}

	embedding, err := i.embedder.Embed(ctx, content)
	if err != nil {
		return 0, fmt.Errorf("embedding content: %w", err)
	}

	id, err := i.store.Insert(ctx, content, embedding, metadata)
	if err != nil {
		return 0, fmt.Errorf("storing document: %w", err)
	}

	i.logger.Debug("ingested document", "id", id, "content_length", len(content))
	return id, nil
}
