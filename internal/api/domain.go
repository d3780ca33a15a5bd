package api

import (
	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/internal/intake"
	"github.com/nwillis/paralegal/internal/processing"
	"github.com/nwillis/paralegal/pkg/pdftext"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Intake    intake.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
	)

	assembler := processing.NewAssembler(
		runtime.Inference,
		runtime.Inference,
		runtime.Logger,
	)

	intakeSystem := intake.New(
		docsSystem,
		pdftext.New(),
		assembler,
		runtime.Inference,
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Intake:    intakeSystem,
	}
}
