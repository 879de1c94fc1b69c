// Package knowledge persists the document corpus and serves vector
// similarity search over PostgreSQL + pgvector.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const insertDocumentSQL = `INSERT INTO documents (content, embedding, metadata)
	VALUES ($1, $2, $3)
	RETURNING id, created_at`

// Ordering by the <=> operator returns closest vectors first; id breaks
// distance ties by insertion order so results are deterministic.
const nearestNeighborsSQL = `SELECT content, metadata, 1 - (embedding <=> $1) AS similarity
	FROM documents
	ORDER BY embedding <=> $1, id
	LIMIT $2`

const listDocumentsSQL = `SELECT id, content, metadata, created_at
	FROM documents
	ORDER BY created_at DESC, id DESC`

// Store manages document records with vector search capabilities.
//
// All mutation is append-only, so concurrent inserts need no cross-record
// locking. Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	dim    int
	logger *slog.Logger
}

// New creates a Store.
// dim is the configured embedding dimensionality; every vector passing
// through the store is checked against it. logger may be nil.
func New(pool *pgxpool.Pool, dim int, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if dim < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, dim: dim, logger: logger}, nil
}

// checkDimension validates an embedding against the configured
// dimensionality. A mismatch is a hard failure, never silently corrected.
func (s *Store) checkDimension(embedding []float32) error {
	if len(embedding) != s.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), s.dim)
	}
	return nil
}

// Insert stores a new document record and returns its assigned id.
// The id is usable immediately for subsequent reads (read-your-writes).
// metadata may be nil (stored as an empty object).
func (s *Store) Insert(ctx context.Context, content string, embedding []float32, metadata map[string]any) (int64, error) {
	if err := s.checkDimension(embedding); err != nil {
		return 0, err
	}

	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return 0, fmt.Errorf("marshaling metadata: %w", err)
	}

	var id int64
	var createdAt time.Time
	err = s.pool.QueryRow(ctx, insertDocumentSQL,
		content, pgvector.NewVector(embedding), metadataJSON,
	).Scan(&id, &createdAt)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	s.logger.Debug("inserted document", "id", id, "content_length", len(content))
	return id, nil
}

// NearestNeighbors returns up to k stored passages ordered by descending
// cosine similarity to the query embedding. An empty corpus yields an empty
// slice, not an error.
func (s *Store) NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	if err := s.checkDimension(embedding); err != nil {
		return nil, err
	}
	if k < 1 {
		return []Result{}, nil
	}

	rows, err := s.pool.Query(ctx, nearestNeighborsSQL, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	results := make([]Result, 0, k)
	for rows.Next() {
		var (
			content      string
			metadataJSON []byte
			similarity   float64
		)
		if err := rows.Scan(&content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, Result{
			Content:    content,
			Metadata:   s.unmarshalMetadata(metadataJSON),
			Similarity: similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search results: %w", err)
	}

	return results, nil
}

// ListAll returns every stored document, newest first. Pure read.
func (s *Store) ListAll(ctx context.Context) ([]Document, error) {
	rows, err := s.pool.Query(ctx, listDocumentsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var (
			doc          Document
			metadataJSON []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Metadata = s.unmarshalMetadata(metadataJSON)
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	return documents, nil
}

// marshalMetadata serializes metadata for the JSONB column.
// nil maps become an empty object rather than SQL null.
func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return json.Marshal(metadata)
}

// unmarshalMetadata parses a JSONB payload, falling back to an empty map on
// corrupt data so a single bad record cannot break a whole result set.
func (s *Store) unmarshalMetadata(data []byte) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}
	var metadata map[string]any
	if err := json.Unmarshal(data, &metadata); err != nil {
		s.logger.Warn("failed to parse metadata", "error", err)
		return map[string]any{}
	}
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
