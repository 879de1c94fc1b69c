package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/sibyl0/sibyl/internal/log"
)

type fakeIndexerStore struct {
	calls    int
	id       int64
	err      error
	lastText string
	lastVec  []float32
	lastMeta map[string]any
}

func (f *fakeIndexerStore) Insert(_ context.Context, content string, embedding []float32, metadata map[string]any) (int64, error) {
	f.calls++
	f.lastText = content
	f.lastVec = embedding
	f.lastMeta = metadata
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

func TestNewIndexer(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeIndexerStore{}

	tests := []struct {
		name     string
		embedder Embedder
		store    IndexerStore
		wantErr  bool
	}{
		{"valid", embedder, store, false},
		{"nil embedder", nil, store, true},
		{"nil store", embedder, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndexer(tt.embedder, tt.store, log.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewIndexer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIngestEmptyContent(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeIndexerStore{}
	idx, err := NewIndexer(embedder, store, log.NewNop())
	if err != nil {
		t.Fatalf("NewIndexer() error = %v", err)
	}

	for _, content := range []string{"", "  ", "\t\n"} {
		if _, err := idx.Ingest(context.Background(), content, nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Ingest(%q) error = %v, want ErrInvalidInput", content, err)
		}
	}

	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for empty content, want 0", embedder.calls)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times for empty content, want 0", store.calls)
	}
}

func TestIngest(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	store := &fakeIndexerStore{id: 42}
	idx, err := NewIndexer(embedder, store, log.NewNop())
	if err != nil {
		t.Fatalf("NewIndexer() error = %v", err)
	}

	meta := map[string]any{"source": "wiki"}
	id, err := idx.Ingest(context.Background(), "Go is a compiled language.", meta)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if id != 42 {
		t.Errorf("Ingest() id = %d, want 42", id)
	}
	if store.lastText != "Go is a compiled language." {
		t.Errorf("stored content = %q", store.lastText)
	}
	if len(store.lastVec) != 3 {
		t.Errorf("stored embedding length = %d, want 3", len(store.lastVec))
	}
	if store.lastMeta["source"] != "wiki" {
		t.Errorf("stored metadata = %v", store.lastMeta)
	}
}

func TestIngestEmbedFailureSkipsStore(t *testing.T) {
	boom := errors.New("boom")
	embedder := &fakeEmbedder{err: boom}
	store := &fakeIndexerStore{}
	idx, err := NewIndexer(embedder, store, log.NewNop())
	if err != nil {
		t.Fatalf("NewIndexer() error = %v", err)
	}

	if _, err := idx.Ingest(context.Background(), "content", nil); !errors.Is(err, boom) {
		t.Errorf("Ingest() error = %v, want wrapped boom", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times after embed failure, want 0", store.calls)
	}
}

func TestIngestStoreFailure(t *testing.T) {
	boom := errors.New("boom")
	embedder := &fakeEmbedder{vector: []float32{1}}
	store := &fakeIndexerStore{err: boom}
	idx, err := NewIndexer(embedder, store, log.NewNop())
	if err != nil {
		t.Fatalf("NewIndexer() error = %v", err)
	}

	id, err := idx.Ingest(context.Background(), "content", nil)
	if !errors.Is(err, boom) {
		t.Errorf("Ingest() error = %v, want wrapped boom", err)
	}
	if id != 0 {
		t.Errorf("Ingest() id = %d, want 0 on failure", id)
	}
}
