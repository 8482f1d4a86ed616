package comparison

import (
	"fmt"

	"github.com/LakshmiNeithilath/FileComparison/internal/extract"
)

// ErrExtraction is returned, wrapped in an *Error, when a document's text
// cannot be obtained.
var ErrExtraction = extract.ErrExtraction

// Stage names a step of the per-document pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageExtraction        Stage = "extraction"
	StageLanguageDetection Stage = "language detection"
	StageTranslation       Stage = "translation"
	StageEmbedding         Stage = "embedding"
	StageEntityExtraction  Stage = "entity extraction"
	StageScoring           Stage = "scoring"
)

// Error reports the document and stage at which a comparison failed.
type Error struct {
	Document string
	Stage    Stage
	Err      error
}

func (e *Error) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Document, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
