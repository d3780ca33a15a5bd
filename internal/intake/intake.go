// Package intake implements document upload: spooling the uploaded file,
// extracting its text, registering the document, running the processing
// pipeline, and attaching the result. Attachment is all-or-nothing; a
// failed pipeline run leaves the document registered but unprocessed.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/internal/processing"
	"github.com/nwillis/paralegal/pkg/inference"
	"github.com/nwillis/paralegal/pkg/pdftext"
)

// System defines the public contract for document intake.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Ingest(ctx context.Context, cmd IngestCommand) (*documents.Document, error)
}

// IngestCommand carries one uploaded file. Data holds the raw file bytes;
// DocumentType is optional and defaults at creation.
type IngestCommand struct {
	Data         []byte
	Filename     string
	ContentType  string
	DocumentType string
}

type service struct {
	docs      documents.System
	extractor pdftext.Extractor
	assembler *processing.Assembler
	embedder  inference.Embedder
	logger    *slog.Logger
}

// New creates an intake service from the document system and capability
// handles.
func New(
	docs documents.System,
	extractor pdftext.Extractor,
	assembler *processing.Assembler,
	embedder inference.Embedder,
	logger *slog.Logger,
) System {
	return &service{
		docs:      docs,
		extractor: extractor,
		assembler: assembler,
		embedder:  embedder,
		logger:    logger.With("system", "intake"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

// Ingest extracts text from the uploaded file, registers the document with
// its raw content, runs the processing pipeline, embeds the text, and
// attaches the processed content. Pipeline and embedding failures abort
// before attachment, so the stored document never carries a partial result.
func (s *service) Ingest(ctx context.Context, cmd IngestCommand) (*documents.Document, error) {
	text, err := s.extractor.Extract(bytes.NewReader(cmd.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	doc, err := s.docs.Create(ctx, documents.CreateCommand{
		Data:         cmd.Data,
		Title:        cmd.Filename,
		DocumentType: cmd.DocumentType,
		ContentType:  cmd.ContentType,
		Content:      text,
	})
	if err != nil {
		return nil, err
	}

	pc, err := s.assembler.Assemble(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: %w", ErrProcessing, doc.ID, err)
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s: embed: %w", ErrProcessing, doc.ID, err)
	}

	if err := s.docs.AttachProcessedContent(ctx, doc.ID, pc, embedding); err != nil {
		return nil, err
	}

	doc.ProcessedContent = pc

	s.logger.Info(
		"document ingested",
		"id", doc.ID,
		"title", doc.Title,
		"sections", len(pc.Sections),
		"entities", len(pc.Entities),
	)
	return doc, nil
}
