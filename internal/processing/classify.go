package processing

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/nwillis/paralegal/pkg/inference"
)

// ClauseLabels is the fixed candidate set for zero-shot section
// classification. The set is closed for this domain.
var ClauseLabels = []string{
	"Confidentiality",
	"Termination",
	"Liability",
	"Payment Terms",
	"Governing Law",
}

// classifyInputLimit bounds the prefix of section content submitted to the
// classifier, in runes.
const classifyInputLimit = 512

// ClassifySection classifies section content against ClauseLabels and
// returns the highest-scoring label with its score. A malformed result —
// empty labels, mismatched score array, a label outside the candidate set,
// or a score outside [0,1] — is an error, never skipped: a document must
// not be marked processed with a missing classification.
func ClassifySection(ctx context.Context, cl inference.Classifier, content string) (string, float64, error) {
	result, err := cl.Classify(ctx, truncateRunes(content, classifyInputLimit), ClauseLabels)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	if len(result.Labels) == 0 || len(result.Labels) != len(result.Scores) {
		return "", 0, fmt.Errorf(
			"%w: classifier returned %d labels and %d scores",
			ErrClassification, len(result.Labels), len(result.Scores),
		)
	}

	best := 0
	for i := range result.Scores {
		if result.Scores[i] > result.Scores[best] {
			best = i
		}
	}

	label := result.Labels[best]
	score := result.Scores[best]

	if !slices.Contains(ClauseLabels, label) {
		return "", 0, fmt.Errorf("%w: unknown label %q", ErrClassification, label)
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return "", 0, fmt.Errorf("%w: score %v outside [0,1]", ErrClassification, score)
	}

	return label, score, nil
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
