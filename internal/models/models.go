package models

import (
	"time"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
)

// ComparisonRecord is a comparison run through the HTTP API
type ComparisonRecord struct {
	ID        string             `json:"id"`
	Files     []UploadedFile     `json:"files"`
	Result    *comparison.Result `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
}

// UploadedFile describes one uploaded document
type UploadedFile struct {
	Field string `json:"field"` // "doc1" or "doc2"
	Name  string `json:"name"`
	Size  int64  `json:"size"`
}

// ErrorResponse is returned when a comparison fails
type ErrorResponse struct {
	Error    string `json:"error"`
	Stage    string `json:"stage,omitempty"`
	Document string `json:"document,omitempty"`
}
