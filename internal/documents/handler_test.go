package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nwillis/paralegal/internal/documents"
)

type fakeSystem struct {
	docs     []documents.Document
	fileData []byte

	searchQuery   string
	searchDocType *string
	similarLimit  int
}

func (f *fakeSystem) Handler() *documents.Handler {
	return documents.NewHandler(f, slog.New(slog.DiscardHandler))
}

func (f *fakeSystem) List(ctx context.Context) ([]documents.Document, error) {
	return f.docs, nil
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, documents.ErrNotFound
}

func (f *fakeSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return nil, nil
}

func (f *fakeSystem) File(ctx context.Context, id uuid.UUID) (io.ReadCloser, *documents.Document, error) {
	doc, err := f.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return io.NopCloser(bytes.NewReader(f.fileData)), doc, nil
}

func (f *fakeSystem) AttachProcessedContent(ctx context.Context, id uuid.UUID, pc *documents.ProcessedContent, embedding []float32) error {
	return nil
}

func (f *fakeSystem) Search(ctx context.Context, query string, docType *string) ([]documents.Document, error) {
	f.searchQuery = query
	f.searchDocType = docType

	var out []documents.Document
	for _, d := range f.docs {
		if !strings.Contains(strings.ToLower(d.Content), strings.ToLower(query)) {
			continue
		}
		if docType != nil && d.DocumentType != *docType {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeSystem) FindSimilar(ctx context.Context, id uuid.UUID, limit int) ([]documents.Document, error) {
	f.similarLimit = limit

	var out []documents.Document
	for _, d := range f.docs {
		if d.ID == id {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, d)
	}
	return out, nil
}

func seedDocuments() []documents.Document {
	return []documents.Document{
		{ID: uuid.New(), Title: "nda.pdf", DocumentType: "contract", Content: "CONFIDENTIALITY terms apply."},
		{ID: uuid.New(), Title: "lease.pdf", DocumentType: "lease", Content: "Payment terms and termination."},
		{ID: uuid.New(), Title: "msa.pdf", DocumentType: "contract", Content: "Liability and payment terms."},
	}
}

func decodeDocuments(t *testing.T, rec *httptest.ResponseRecorder) []documents.Document {
	t.Helper()

	var docs []documents.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode documents: %v (body %s)", err, rec.Body)
	}
	return docs
}

func TestHandlerList(t *testing.T) {
	sys := &fakeSystem{docs: seedDocuments()}
	handler := sys.Handler()

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if docs := decodeDocuments(t, rec); len(docs) != 3 {
		t.Errorf("list returned %d documents, want 3", len(docs))
	}
}

func TestHandlerFind(t *testing.T) {
	docs := seedDocuments()
	sys := &fakeSystem{docs: docs}
	handler := sys.Handler()

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"existing document", docs[0].ID.String(), http.StatusOK},
		{"unknown document", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()

			handler.Find(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerFile(t *testing.T) {
	docs := seedDocuments()
	pdf := []byte("%PDF-1.4 original bytes")
	sys := &fakeSystem{docs: docs, fileData: pdf}
	handler := sys.Handler()

	id := docs[0].ID.String()
	req := httptest.NewRequest("GET", "/"+id+"/file", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()

	handler.File(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "nda.pdf") {
		t.Errorf("content disposition = %q, want filename nda.pdf", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), pdf) {
		t.Errorf("body = %q, want original bytes", rec.Body)
	}
}

func TestHandlerFileErrors(t *testing.T) {
	sys := &fakeSystem{docs: seedDocuments()}
	handler := sys.Handler()

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"unknown document", uuid.NewString(), http.StatusNotFound},
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/"+tt.id+"/file", nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()

			handler.File(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerSearch(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantCount   int
		wantDocType *string
	}{
		{"query only", "/?query=payment", 2, nil},
		{"query with type filter", "/?query=payment&doc_type=lease", 1, ptr("lease")},
		{"no matches", "/?query=arbitration", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &fakeSystem{docs: seedDocuments()}
			handler := sys.Handler()

			rec := httptest.NewRecorder()
			handler.Search(rec, httptest.NewRequest("GET", tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if docs := decodeDocuments(t, rec); len(docs) != tt.wantCount {
				t.Errorf("search returned %d documents, want %d", len(docs), tt.wantCount)
			}

			if tt.wantDocType == nil && sys.searchDocType != nil {
				t.Errorf("doc type filter = %q, want none", *sys.searchDocType)
			}
			if tt.wantDocType != nil && (sys.searchDocType == nil || *sys.searchDocType != *tt.wantDocType) {
				t.Errorf("doc type filter = %v, want %q", sys.searchDocType, *tt.wantDocType)
			}
		})
	}
}

func TestHandlerSimilar(t *testing.T) {
	docs := seedDocuments()
	sys := &fakeSystem{docs: docs}
	handler := sys.Handler()

	id := docs[0].ID.String()
	req := httptest.NewRequest("GET", "/"+id+"/similar?limit=2", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()

	handler.Similar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sys.similarLimit != 2 {
		t.Errorf("limit = %d, want 2", sys.similarLimit)
	}
	if got := decodeDocuments(t, rec); len(got) != 2 {
		t.Errorf("similar returned %d documents, want 2", len(got))
	}
}

func TestHandlerSimilarUnknownTarget(t *testing.T) {
	sys := &fakeSystem{docs: seedDocuments()}
	handler := sys.Handler()

	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/"+id+"/similar", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()

	handler.Similar(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func ptr(s string) *string { return &s }
