package processing

import "errors"

// Processing errors. Capability failures wrap one of these so callers can
// distinguish an aborted processing run from input or store errors.
var (
	ErrEntityExtraction = errors.New("entity extraction failed")
	ErrClassification   = errors.New("section classification failed")
)
