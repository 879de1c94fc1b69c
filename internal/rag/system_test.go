package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sibyl0/sibyl/internal/knowledge"
	"github.com/sibyl0/sibyl/internal/log"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
	err    error
	lastIn string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastIn = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeStore struct {
	calls   int
	results []knowledge.Result
	err     error
	lastK   int
	lastVec []float32
}

func (f *fakeStore) NearestNeighbors(_ context.Context, embedding []float32, k int) ([]knowledge.Result, error) {
	f.calls++
	f.lastVec = embedding
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeGenerator struct {
	calls      int
	answer     string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestNewSystem(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	generator := &fakeGenerator{}

	tests := []struct {
		name      string
		embedder  Embedder
		store     Store
		generator Generator
		wantErr   bool
	}{
		{"valid", embedder, store, generator, false},
		{"nil embedder", nil, store, generator, true},
		{"nil store", embedder, nil, generator, true},
		{"nil generator", embedder, store, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSystem(tt.embedder, tt.store, tt.generator, log.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSystem() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	generator := &fakeGenerator{}
	sys, err := NewSystem(embedder, store, generator, log.NewNop())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	for _, question := range []string{"", "   ", "\n\t "} {
		if _, err := sys.Ask(context.Background(), question); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Ask(%q) error = %v, want ErrInvalidInput", question, err)
		}
	}

	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for invalid input, want 0", embedder.calls)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times for invalid input, want 0", store.calls)
	}
}

func TestAskEmptyCorpus(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	store := &fakeStore{results: []knowledge.Result{}}
	generator := &fakeGenerator{answer: "should never appear"}
	sys, err := NewSystem(embedder, store, generator, log.NewNop())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	answer, err := sys.Ask(context.Background(), "anything there?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer.Text != EmptyCorpusAnswer {
		t.Errorf("Ask() text = %q, want canned empty-corpus answer", answer.Text)
	}
	if answer.Sources == nil || len(answer.Sources) != 0 {
		t.Errorf("Ask() sources = %v, want empty non-nil slice", answer.Sources)
	}
	if generator.calls != 0 {
		t.Errorf("generator called %d times on empty corpus, want 0", generator.calls)
	}
}

func TestAskGroundedAnswer(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.5, 0.5}}
	store := &fakeStore{results: []knowledge.Result{
		{Content: "Go was designed at Google.", Similarity: 0.93},
		{Content: "Go compiles to native code.", Similarity: 0.71},
	}}
	generator := &fakeGenerator{answer: "Go was designed at Google."}
	sys, err := NewSystem(embedder, store, generator, log.NewNop())
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	answer, err := sys.Ask(context.Background(), "Who designed Go?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if answer.Text != "Go was designed at Google." {
		t.Errorf("Ask() text = %q", answer.Text)
	}
	if len(answer.Sources) != 2 {
		t.Fatalf("Ask() sources = %d, want 2", len(answer.Sources))
	}
	if answer.Sources[0].Similarity < answer.Sources[1].Similarity {
		t.Error("sources out of similarity order")
	}

	if embedder.lastIn != "Who designed Go?" {
		t.Errorf("embedder input = %q", embedder.lastIn)
	}
	if store.lastK != DefaultTopK {
		t.Errorf("store k = %d, want %d", store.lastK, DefaultTopK)
	}
	if generator.lastSystem != SystemPrompt {
		t.Errorf("generator system prompt = %q", generator.lastSystem)
	}
	wantUser := "Context:\nGo was designed at Google.\n\nGo compiles to native code.\n\nQuestion: Who designed Go?"
	if generator.lastUser != wantUser {
		t.Errorf("generator user prompt = %q, want %q", generator.lastUser, wantUser)
	}
}

func TestAskPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		embedder  *fakeEmbedder
		store     *fakeStore
		generator *fakeGenerator
		stage     string
	}{
		{
			name:      "embed failure",
			embedder:  &fakeEmbedder{err: boom},
			store:     &fakeStore{},
			generator: &fakeGenerator{},
			stage:     "embedding question",
		},
		{
			name:      "retrieval failure",
			embedder:  &fakeEmbedder{vector: []float32{1}},
			store:     &fakeStore{err: boom},
			generator: &fakeGenerator{},
			stage:     "retrieving passages",
		},
		{
			name:      "generation failure",
			embedder:  &fakeEmbedder{vector: []float32{1}},
			store:     &fakeStore{results: []knowledge.Result{{Content: "x"}}},
			generator: &fakeGenerator{err: boom},
			stage:     "generating answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := NewSystem(tt.embedder, tt.store, tt.generator, log.NewNop())
			if err != nil {
				t.Fatalf("NewSystem() error = %v", err)
			}
			answer, err := sys.Ask(context.Background(), "q")
			if !errors.Is(err, boom) {
				t.Errorf("Ask() error = %v, want wrapped boom", err)
			}
			if answer != nil {
				t.Errorf("Ask() answer = %v, want nil on failure", answer)
			}
			if !strings.Contains(err.Error(), tt.stage) {
				t.Errorf("Ask() error = %q, want stage %q in message", err, tt.stage)
			}
		})
	}
}
