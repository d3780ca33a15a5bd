package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/nwillis/paralegal/pkg/repository"
	"github.com/nwillis/paralegal/pkg/storage"
)

type repo struct {
	db      *sql.DB
	storage storage.System
	logger  *slog.Logger
}

// New creates a document repository implementing the System interface.
func New(db *sql.DB, store storage.System, logger *slog.Logger) System {
	return &repo{
		db:      db,
		storage: store,
		logger:  logger.With("system", "documents"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context) ([]Document, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM documents ORDER BY uploaded_at DESC",
		documentColumns,
	)

	docs, err := repository.QueryMany(ctx, r.db, q, nil, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return docs, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM documents WHERE id = $1",
		documentColumns,
	)

	d, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()

	docType := cmd.DocumentType
	if docType == "" {
		docType = DefaultDocumentType
	}

	key := buildStorageKey(id, sanitizeFilename(cmd.Title))
	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO documents(id, title, document_type, content, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, documentColumns)

	insertArgs := []any{id, cmd.Title, docType, cmd.Content, key}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "title", d.Title, "type", d.DocumentType)
	return &d, nil
}

func (r *repo) AttachProcessedContent(
	ctx context.Context,
	id uuid.UUID,
	pc *ProcessedContent,
	embedding []float32,
) error {
	raw, err := encodeProcessedContent(pc)
	if err != nil {
		return err
	}

	var vec any
	if embedding != nil {
		vec = pgvector.NewVector(embedding)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET processed_content = $2, embedding = $3 WHERE id = $1",
			id, raw, vec,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"processed content attached",
		"id", id,
		"sections", len(pc.Sections),
		"entities", len(pc.Entities),
	)
	return nil
}

func (r *repo) File(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Document, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	exists, err := r.storage.Exists(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("check document blob: %w", err)
	}
	if !exists {
		// record exists but the blob is gone; surface as not found but
		// log the divergence
		r.logger.Warn("document blob missing", "id", id, "key", doc.StorageKey)
		return nil, nil, ErrNotFound
	}

	rc, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}

	return rc, doc, nil
}

func (r *repo) Search(ctx context.Context, query string, docType *string) ([]Document, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM documents WHERE content ILIKE $1 ESCAPE '\'`,
		documentColumns,
	)
	args := []any{EscapeSearchPattern(query)}

	if docType != nil {
		q += " AND document_type = $2"
		args = append(args, *docType)
	}

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

func (r *repo) FindSimilar(ctx context.Context, id uuid.UUID, limit int) ([]Document, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM documents d
		WHERE d.id <> $1
		  AND d.embedding IS NOT NULL
		ORDER BY d.embedding <=> (SELECT t.embedding FROM documents t WHERE t.id = $1)
		LIMIT $2`,
		prefixColumns("d"),
	)

	docs, err := repository.QueryMany(ctx, r.db, q, []any{id, limit}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query similar documents: %w", err)
	}
	return docs, nil
}

func prefixColumns(alias string) string {
	return fmt.Sprintf(
		"%[1]s.id, %[1]s.title, %[1]s.document_type, %[1]s.content, %[1]s.processed_content, %[1]s.storage_key, %[1]s.uploaded_at",
		alias,
	)
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
