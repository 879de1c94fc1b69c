package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sibyl0/sibyl/internal/rag"
)

// Asker answers a question grounded on the stored corpus.
type Asker interface {
	Ask(ctx context.Context, question string) (*rag.Answer, error)
}

type queryHandler struct {
	system Asker
	logger *slog.Logger
}

type queryRequest struct {
	Question string `json:"question"`
}

type sourceResponse struct {
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Similarity float64        `json:"similarity"`
}

type queryResponse struct {
	Answer  string           `json:"answer"`
	Sources []sourceResponse `json:"sources"`
}

// query handles POST /query: the full retrieve-then-generate pipeline.
// An empty corpus is not an error; it yields a canned answer with an
// empty source list.
func (h *queryHandler) query(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBody)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	answer, err := h.system.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, rag.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_input", "question must not be empty")
			return
		}
		h.logger.Error("processing query", "error", err)
		writeError(w, http.StatusInternalServerError, "query_failed", "failed to process query")
		return
	}

	sources := make([]sourceResponse, 0, len(answer.Sources))
	for _, s := range answer.Sources {
		sources = append(sources, sourceResponse{
			Content:    s.Content,
			Metadata:   s.Metadata,
			Similarity: s.Similarity,
		})
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:  answer.Text,
		Sources: sources,
	})
}
