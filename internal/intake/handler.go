package intake

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/pkg/handlers"
	"github.com/nwillis/paralegal/pkg/routes"
)

// UploadResponse is the body returned for a successful upload.
type UploadResponse struct {
	ID               uuid.UUID                   `json:"id"`
	ProcessedContent *documents.ProcessedContent `json:"processed_content"`
}

// Handler provides the HTTP upload surface.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload
// size limit in bytes.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "intake"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group for the /upload module.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{$}", Handler: h.Upload},
		},
	}
}

// Upload accepts a multipart form with a "file" part and an optional
// "document_type" field, runs the document through intake, and returns
// the stored id with its processed content.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}

		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	doc, err := h.sys.Ingest(r.Context(), IngestCommand{
		Data:         data,
		Filename:     filepath.Base(header.Filename),
		ContentType:  header.Header.Get("Content-Type"),
		DocumentType: r.FormValue("document_type"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{
		ID:               doc.ID,
		ProcessedContent: doc.ProcessedContent,
	})
}
