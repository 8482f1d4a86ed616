package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/LakshmiNeithilath/FileComparison/internal/extract"
	"github.com/LakshmiNeithilath/FileComparison/internal/models"
)

// HandleCompare accepts two documents as multipart fields doc1 and doc2
// and returns the comparison result.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*maxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	tmpDir, err := os.MkdirTemp("", "filecompare-*")
	if err != nil {
		h.writeError(w, "Failed to create upload directory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	var (
		files []models.UploadedFile
		names [2]string
		paths = make(map[string]string, 2)
	)
	for i, field := range []string{"doc1", "doc2"} {
		upload, err := h.saveUpload(r, field, filepath.Join(tmpDir, field))
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		name := upload.name
		if i == 1 && name == names[0] {
			name += " (2)"
		}
		names[i] = name
		paths[name] = upload.path
		files = append(files, models.UploadedFile{Field: field, Name: name, Size: upload.size})
	}

	result, err := h.comparer.Compare(r.Context(), names[0], names[1], func(ctx context.Context, id string) (string, error) {
		path, ok := paths[id]
		if !ok {
			return "", fmt.Errorf("%w: unknown document %q", extract.ErrExtraction, id)
		}
		return extract.ExtractText(ctx, path)
	})
	if err != nil {
		h.writeComparisonError(w, err)
		return
	}

	record := &models.ComparisonRecord{
		ID:        result.ID,
		Files:     files,
		Result:    result,
		CreatedAt: time.Now(),
	}
	h.store.Set(record.ID, record)

	h.writeJSON(w, http.StatusOK, record)
}

type savedUpload struct {
	name string
	path string
	size int64
}

func (h *Handler) saveUpload(r *http.Request, field, dir string) (*savedUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !extract.SupportedExtension(name) {
		return nil, fmt.Errorf("unsupported file type for %s: %s", field, name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(dir, name)

	size, err := copyLimited(path, file)
	if err != nil {
		return nil, err
	}
	return &savedUpload{name: name, path: path, size: size}, nil
}

func copyLimited(path string, src multipart.File) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to save upload: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return 0, fmt.Errorf("failed to save upload: %w", err)
	}
	if n > maxUploadSize {
		return 0, errors.New("file too large (max 10MB)")
	}
	return n, dst.Close()
}

func (h *Handler) writeComparisonError(w http.ResponseWriter, err error) {
	response := models.ErrorResponse{Error: err.Error()}
	code := http.StatusInternalServerError

	var cerr *comparison.Error
	if errors.As(err, &cerr) {
		response.Stage = string(cerr.Stage)
		response.Document = cerr.Document
		switch cerr.Stage {
		case comparison.StageExtraction, comparison.StageLanguageDetection, comparison.StageScoring:
			code = http.StatusUnprocessableEntity
		default:
			code = http.StatusBadGateway
		}
	}

	h.writeJSON(w, code, response)
}
