package processing

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/pkg/inference"
)

// allowedEntityLabels is the closed label set retained from raw NER output:
// persons, organizations, dates, monetary amounts, and geopolitical
// entities. Anything else the model reports is dropped.
var allowedEntityLabels = map[string]struct{}{
	"PERSON": {},
	"ORG":    {},
	"DATE":   {},
	"MONEY":  {},
	"GPE":    {},
}

// ExtractEntities runs the recognizer over the full document text, keeps
// only spans with allowed labels, validates offsets against the text, and
// returns the result sorted ascending by start offset, then end offset.
// Sorting makes output deterministic even when the model reports spans out
// of order.
func ExtractEntities(ctx context.Context, rec inference.Recognizer, text string) ([]documents.Entity, error) {
	spans, err := rec.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntityExtraction, err)
	}

	length := utf8.RuneCountInString(text)

	entities := make([]documents.Entity, 0, len(spans))
	for _, s := range spans {
		if _, ok := allowedEntityLabels[s.Label]; !ok {
			continue
		}

		if s.Start < 0 || s.Start >= s.End || s.End > length {
			return nil, fmt.Errorf(
				"%w: span %q has offsets [%d,%d) outside text of length %d",
				ErrEntityExtraction, s.Text, s.Start, s.End, length,
			)
		}

		entities = append(entities, documents.Entity{
			Text:     s.Text,
			Label:    s.Label,
			StartIdx: s.Start,
			EndIdx:   s.End,
		})
	}

	slices.SortFunc(entities, func(a, b documents.Entity) int {
		if a.StartIdx != b.StartIdx {
			return a.StartIdx - b.StartIdx
		}
		return a.EndIdx - b.EndIdx
	})

	return entities, nil
}
