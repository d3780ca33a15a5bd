package processing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/pkg/inference"
)

// Assembler composes segmentation, entity extraction, and per-section
// classification into processed content. Capability handles are injected at
// construction and shared read-only across concurrent processing runs.
type Assembler struct {
	recognizer inference.Recognizer
	classifier inference.Classifier
	logger     *slog.Logger
}

// NewAssembler creates an Assembler bound to the given capability handles.
func NewAssembler(rec inference.Recognizer, cl inference.Classifier, logger *slog.Logger) *Assembler {
	return &Assembler{
		recognizer: rec,
		classifier: cl,
		logger:     logger.With("system", "processing"),
	}
}

// Assemble produces the processed content for one document's text. Entity
// extraction runs concurrently with segmentation and classification;
// classification starts only after segmentation has fixed every section's
// text, and section order is preserved. Any capability failure aborts the
// whole run — a partial result is never returned.
func (a *Assembler) Assemble(ctx context.Context, text string) (*documents.ProcessedContent, error) {
	var (
		entities []documents.Entity
		sections []documents.Section
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		entities, err = ExtractEntities(gctx, a.recognizer, text)
		return err
	})

	g.Go(func() error {
		var err error
		sections, err = a.classifySections(gctx, Segment(text))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug(
		"assembly complete",
		"sections", len(sections),
		"entities", len(entities),
	)

	return &documents.ProcessedContent{
		Sections: sections,
		Entities: entities,
	}, nil
}

// classifySections classifies drafts under a bounded worker pool, writing
// results by index so document order survives concurrent completion.
func (a *Assembler) classifySections(ctx context.Context, drafts []SectionDraft) ([]documents.Section, error) {
	sections := make([]documents.Section, len(drafts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(drafts)))

	for i, draft := range drafts {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			label, score, err := ClassifySection(gctx, a.classifier, draft.Content)
			if err != nil {
				return fmt.Errorf("section %q: %w", draft.Title, err)
			}

			sections[i] = documents.Section{
				Title:           draft.Title,
				Content:         draft.Content,
				Classification:  label,
				ConfidenceScore: score,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sections, nil
}

func workerCount(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
