package intake

import (
	"errors"
	"net/http"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/internal/processing"
	"github.com/nwillis/paralegal/pkg/inference"
)

// Intake errors.
var (
	ErrInvalidFile  = errors.New("invalid or unreadable file")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrProcessing   = errors.New("document processing failed")
)

// MapHTTPStatus maps intake errors to HTTP status codes. Capability
// failures surface as a bad gateway: the document exists but processing
// was aborted by an external model call.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, processing.ErrEntityExtraction),
		errors.Is(err, processing.ErrClassification),
		errors.Is(err, inference.ErrBadResponse),
		errors.Is(err, ErrProcessing):
		return http.StatusBadGateway
	default:
		return documents.MapHTTPStatus(err)
	}
}
