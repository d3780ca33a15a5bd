// Package documents implements the document domain: the typed record model,
// the store adapter over PostgreSQL, and the HTTP read/search surface.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is a registered legal document with its extracted text and,
// once processing succeeds, its structured content. Content is immutable
// after creation; ProcessedContent is attached exactly once per successful
// processing run and is never partially visible.
type Document struct {
	ID               uuid.UUID         `json:"_id"`
	Title            string            `json:"title"`
	DocumentType     string            `json:"document_type"`
	Content          string            `json:"content"`
	ProcessedContent *ProcessedContent `json:"processed_content,omitempty"`
	StorageKey       string            `json:"storage_key"`
	UploadedAt       time.Time         `json:"upload_date"`
}

// Section is a contiguous titled span of the document text with its clause
// classification and confidence score.
type Section struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Classification  string  `json:"classification"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Entity is a recognized named span. Offsets are character positions into
// the original document text, not per-section.
type Entity struct {
	Text     string `json:"text"`
	Label    string `json:"label"`
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
}

// ProcessedContent is the structured result of one processing run: sections
// in document order and entities in ascending offset order.
type ProcessedContent struct {
	Sections []Section `json:"sections"`
	Entities []Entity  `json:"entities"`
}

// DefaultDocumentType is applied when an upload does not specify a type.
const DefaultDocumentType = "contract"

// CreateCommand carries the data needed to register a new document.
// Data holds the original file bytes, retained in blob storage.
type CreateCommand struct {
	Data         []byte
	Title        string
	DocumentType string
	ContentType  string
	Content      string
}
