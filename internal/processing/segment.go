// Package processing implements the document processing core: heuristic
// section segmentation, entity extraction orchestration, per-section clause
// classification, and the assembler that composes them into processed
// content.
package processing

import (
	"strings"
	"unicode"
)

// DefaultSectionTitle names the leading span of text before any detected
// header line.
const DefaultSectionTitle = "Main"

// maxHeaderTokens is the upper bound of whitespace-delimited tokens for a
// line to qualify as a section header.
const maxHeaderTokens = 5

// SectionDraft is a titled span of text produced by segmentation, before
// classification.
type SectionDraft struct {
	Title   string
	Content string
}

// Segment splits text into titled sections on header lines. A header line
// is entirely upper-case (at least one upper-case letter, no lower-case)
// with at most five tokens. Content accumulates under the current title,
// starting at "Main"; a section is emitted only when its accumulator is
// non-empty, so consecutive header lines collapse under the later title.
func Segment(text string) []SectionDraft {
	var sections []SectionDraft
	title := DefaultSectionTitle
	var acc strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if isHeaderLine(line) {
			if acc.Len() > 0 {
				sections = append(sections, SectionDraft{
					Title:   title,
					Content: strings.TrimSpace(acc.String()),
				})
			}
			title = line
			acc.Reset()
			continue
		}

		acc.WriteString(line)
		acc.WriteByte('\n')
	}

	if acc.Len() > 0 {
		sections = append(sections, SectionDraft{
			Title:   title,
			Content: strings.TrimSpace(acc.String()),
		})
	}

	return sections
}

// isHeaderLine reports whether line is entirely upper-case with at most
// maxHeaderTokens whitespace-delimited tokens. Lines without any cased
// letter never qualify.
func isHeaderLine(line string) bool {
	if len(strings.Fields(line)) > maxHeaderTokens {
		return false
	}

	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}

	return hasUpper
}
