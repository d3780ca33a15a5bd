package documents

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// System defines the public contract for document store operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Document, error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	// File returns a stream of the original uploaded file together with the
	// document record. The caller must close the reader. It fails with
	// ErrNotFound when the document does not exist or its blob is missing.
	File(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Document, error)

	// AttachProcessedContent sets the processed content and embedding for a
	// document in one statement. It fails with ErrNotFound when the target
	// document does not exist; it never silently no-ops.
	AttachProcessedContent(ctx context.Context, id uuid.UUID, pc *ProcessedContent, embedding []float32) error

	// Search matches query as a case-insensitive substring of raw content,
	// optionally restricted to an exact document type. Results carry no
	// relevance ordering.
	Search(ctx context.Context, query string, docType *string) ([]Document, error)

	// FindSimilar returns up to limit documents nearest to the target by
	// embedding distance, excluding the target itself and any document
	// without an embedding.
	FindSimilar(ctx context.Context, id uuid.UUID, limit int) ([]Document, error)
}
