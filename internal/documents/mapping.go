package documents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nwillis/paralegal/pkg/repository"
)

// documentColumns is the projection shared by every document query.
const documentColumns = "id, title, document_type, content, processed_content, storage_key, uploaded_at"

// scanDocument converts a row into a Document, decoding the processed
// content from its jsonb store representation. The typed record / untyped
// store conversion happens only here and in encodeProcessedContent.
func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d   Document
		raw []byte
	)

	if err := s.Scan(
		&d.ID,
		&d.Title,
		&d.DocumentType,
		&d.Content,
		&raw,
		&d.StorageKey,
		&d.UploadedAt,
	); err != nil {
		return Document{}, err
	}

	if raw != nil {
		var pc ProcessedContent
		if err := json.Unmarshal(raw, &pc); err != nil {
			return Document{}, fmt.Errorf("decode processed content: %w", err)
		}
		d.ProcessedContent = &pc
	}

	return d, nil
}

// encodeProcessedContent converts processed content to its jsonb store
// representation.
func encodeProcessedContent(pc *ProcessedContent) ([]byte, error) {
	data, err := json.Marshal(pc)
	if err != nil {
		return nil, fmt.Errorf("encode processed content: %w", err)
	}
	return data, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeSearchPattern wraps a raw query string in ILIKE wildcards, escaping
// any pattern metacharacters so user input matches literally.
func EscapeSearchPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
