package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sibyl0/sibyl/internal/knowledge"
	"github.com/sibyl0/sibyl/internal/rag"
)

// maxDocumentBody bounds the request body for ingest and query endpoints.
const maxDocumentBody = 1 << 20 // 1 MiB

// Ingester embeds and stores one document, returning its id.
type Ingester interface {
	Ingest(ctx context.Context, content string, metadata map[string]any) (int64, error)
}

// DocumentLister returns every stored document, newest first.
type DocumentLister interface {
	ListAll(ctx context.Context) ([]knowledge.Document, error)
}

type documentHandler struct {
	indexer Ingester
	store   DocumentLister
	logger  *slog.Logger
}

type addDocumentRequest struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

type addDocumentResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type documentResponse struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// create handles POST /documents: embed the content and store it.
func (h *documentHandler) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBody)

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	id, err := h.indexer.Ingest(r.Context(), req.Content, req.Metadata)
	if err != nil {
		if errors.Is(err, rag.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_input", "content must not be empty")
			return
		}
		h.logger.Error("adding document", "error", err)
		writeError(w, http.StatusInternalServerError, "ingest_failed", "failed to add document")
		return
	}

	writeJSON(w, http.StatusCreated, addDocumentResponse{
		ID:      id,
		Message: "Document added successfully",
	})
}

// list handles GET /documents: every stored document, newest first.
func (h *documentHandler) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error("listing documents", "error", err)
		writeError(w, http.StatusInternalServerError, "list_failed", "failed to fetch documents")
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentResponse{
			ID:        d.ID,
			Content:   d.Content,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
