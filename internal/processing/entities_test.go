package processing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/internal/processing"
	"github.com/nwillis/paralegal/pkg/inference"
)

type fakeRecognizer struct {
	spans []inference.Span
	err   error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]inference.Span, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.spans, nil
}

func TestExtractEntities(t *testing.T) {
	text := "Acme Corp pays $500 on June 1, 2026 in Delaware."

	tests := []struct {
		name  string
		spans []inference.Span
		want  []documents.Entity
	}{
		{
			name: "allowed labels pass through",
			spans: []inference.Span{
				{Text: "Acme Corp", Label: "ORG", Start: 0, End: 9},
				{Text: "$500", Label: "MONEY", Start: 15, End: 19},
			},
			want: []documents.Entity{
				{Text: "Acme Corp", Label: "ORG", StartIdx: 0, EndIdx: 9},
				{Text: "$500", Label: "MONEY", StartIdx: 15, EndIdx: 19},
			},
		},
		{
			name: "disallowed labels are dropped",
			spans: []inference.Span{
				{Text: "Acme Corp", Label: "ORG", Start: 0, End: 9},
				{Text: "first", Label: "ORDINAL", Start: 10, End: 15},
				{Text: "500", Label: "CARDINAL", Start: 16, End: 19},
			},
			want: []documents.Entity{
				{Text: "Acme Corp", Label: "ORG", StartIdx: 0, EndIdx: 9},
			},
		},
		{
			name: "results sort by start then end offset",
			spans: []inference.Span{
				{Text: "Delaware", Label: "GPE", Start: 39, End: 47},
				{Text: "June 1, 2026", Label: "DATE", Start: 23, End: 35},
				{Text: "June 1", Label: "DATE", Start: 23, End: 29},
			},
			want: []documents.Entity{
				{Text: "June 1", Label: "DATE", StartIdx: 23, EndIdx: 29},
				{Text: "June 1, 2026", Label: "DATE", StartIdx: 23, EndIdx: 35},
				{Text: "Delaware", Label: "GPE", StartIdx: 39, EndIdx: 47},
			},
		},
		{
			name:  "no spans yields empty result",
			spans: nil,
			want:  []documents.Entity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{spans: tt.spans}
			got, err := processing.ExtractEntities(context.Background(), rec, text)
			if err != nil {
				t.Fatalf("ExtractEntities() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractEntities() returned %d entities, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entity %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractEntitiesInvalidOffsets(t *testing.T) {
	text := "short text"

	tests := []struct {
		name string
		span inference.Span
	}{
		{"negative start", inference.Span{Text: "x", Label: "ORG", Start: -1, End: 3}},
		{"start equals end", inference.Span{Text: "x", Label: "ORG", Start: 3, End: 3}},
		{"start after end", inference.Span{Text: "x", Label: "ORG", Start: 5, End: 2}},
		{"end beyond text", inference.Span{Text: "x", Label: "ORG", Start: 0, End: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{spans: []inference.Span{tt.span}}
			_, err := processing.ExtractEntities(context.Background(), rec, text)
			if !errors.Is(err, processing.ErrEntityExtraction) {
				t.Fatalf("ExtractEntities() error = %v, want ErrEntityExtraction", err)
			}
		})
	}
}

func TestExtractEntitiesRuneOffsets(t *testing.T) {
	// 10 runes but more bytes; an end offset of 10 must be accepted.
	text := "héllo wörl"
	rec := &fakeRecognizer{spans: []inference.Span{
		{Text: "wörl", Label: "GPE", Start: 6, End: 10},
	}}

	got, err := processing.ExtractEntities(context.Background(), rec, text)
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(got) != 1 || got[0].EndIdx != 10 {
		t.Errorf("ExtractEntities() = %+v, want one entity ending at 10", got)
	}
}

func TestExtractEntitiesRecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("model host down")}
	_, err := processing.ExtractEntities(context.Background(), rec, "text")
	if !errors.Is(err, processing.ErrEntityExtraction) {
		t.Fatalf("ExtractEntities() error = %v, want ErrEntityExtraction", err)
	}
}
