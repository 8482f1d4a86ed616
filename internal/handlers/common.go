package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/LakshmiNeithilath/FileComparison/internal/models"
	"github.com/LakshmiNeithilath/FileComparison/internal/storage"
)

// maxUploadSize bounds each uploaded document.
const maxUploadSize = 10 * 1024 * 1024

// Comparer compares two documents.
type Comparer interface {
	Compare(ctx context.Context, doc1, doc2 string, extract comparison.ExtractFunc) (*comparison.Result, error)
}

type Handler struct {
	store    *storage.ResultStore
	comparer Comparer
}

func New(comparer Comparer) *Handler {
	return &Handler{
		store:    storage.New(),
		comparer: comparer,
	}
}

// Routes registers the API on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/compare", h.HandleCompare)
	mux.HandleFunc("/api/comparisons", h.HandleComparisons)
	mux.HandleFunc("/api/comparisons/", h.HandleComparisonDetail)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) getRecordOrError(w http.ResponseWriter, id string) (*models.ComparisonRecord, bool) {
	record, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Comparison not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}
