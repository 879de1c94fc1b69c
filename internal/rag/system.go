package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sibyl0/sibyl/internal/knowledge"
)

// Embedder converts text into an embedding vector.
// Interfaces are defined by the consumer, not the provider (like io.Reader
// or http.RoundTripper); internal/llm provides the production implementation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces an answer from a system instruction and a user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Store is the slice of the document store the query path needs.
type Store interface {
	NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]knowledge.Result, error)
}

// Answer is the result of one query: the generated (or canned) answer text
// and the passages it was grounded on, with their similarity scores.
type Answer struct {
	Text    string
	Sources []knowledge.Result
}

// System orchestrates the query path: embed the question, retrieve the
// nearest passages, assemble them into context, and generate a grounded
// answer. Stages run strictly in order within a request; there is no shared
// mutable state between requests.
type System struct {
	embedder  Embedder
	store     Store
	generator Generator
	logger    *slog.Logger
}

// NewSystem creates a query orchestrator. logger may be nil.
func NewSystem(embedder Embedder, store Store, generator Generator, logger *slog.Logger) (*System, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &System{
		embedder:  embedder,
		store:     store,
		generator: generator,
		logger:    logger,
	}, nil
}

// Ask answers a question grounded on the stored corpus.
//
// An empty question fails with ErrInvalidInput before any remote call. An
// empty corpus returns the fixed EmptyCorpusAnswer with zero sources and
// never reaches the generator. Embedding, retrieval, and generation failures
// propagate wrapped; no partial answer is ever returned.
func (s *System) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	passages, err := s.store.NearestNeighbors(ctx, queryVector, DefaultTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieving passages: %w", err)
	}

	if len(passages) == 0 {
		s.logger.Debug("empty corpus, returning canned answer")
		return &Answer{
			Text:    EmptyCorpusAnswer,
			Sources: []knowledge.Result{},
		}, nil
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, AssembleContext(passages), question)

	answer, err := s.generator.Generate(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	s.logger.Debug("answered question",
		"sources", len(passages),
		"top_similarity", passages[0].Similarity,
		"answer_length", len(answer),
	)

	return &Answer{
		Text:    answer,
		Sources: passages,
	}, nil
}
