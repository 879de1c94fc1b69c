package knowledge

import "time"

// Document is the unit of storage and retrieval.
// Records are append-only: once stored, content, embedding, and metadata
// never change.
type Document struct {
	ID        int64          // Assigned by the store, monotonically increasing
	Content   string         // Document text content
	Metadata  map[string]any // Optional, schema-less
	CreatedAt time.Time      // Assigned at insertion
}

// Result is a single similarity search hit. Transient: produced during a
// query and discarded after the response is built.
type Result struct {
	Content    string
	Metadata   map[string]any
	Similarity float64 // 1 - cosine distance
}
