package intake_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/nwillis/paralegal/internal/documents"
	"github.com/nwillis/paralegal/internal/intake"
)

type fakeIngester struct {
	doc *documents.Document
	err error
	cmd intake.IngestCommand
}

func (f *fakeIngester) Handler(maxUploadSize int64) *intake.Handler {
	return intake.NewHandler(f, slog.New(slog.DiscardHandler), maxUploadSize)
}

func (f *fakeIngester) Ingest(ctx context.Context, cmd intake.IngestCommand) (*documents.Document, error) {
	f.cmd = cmd
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	id := uuid.New()
	sys := &fakeIngester{doc: &documents.Document{
		ID: id,
		ProcessedContent: &documents.ProcessedContent{
			Sections: []documents.Section{{Title: "Main", Classification: "Liability", ConfidenceScore: 0.8}},
			Entities: []documents.Entity{},
		},
	}}
	handler := sys.Handler(1024 * 1024)

	body, contentType := multipartBody(t, "nda.pdf", []byte("%PDF-1.7 fake"), map[string]string{
		"document_type": "nda",
	})
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var resp intake.UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != id {
		t.Errorf("response id = %s, want %s", resp.ID, id)
	}
	if resp.ProcessedContent == nil || len(resp.ProcessedContent.Sections) != 1 {
		t.Errorf("response processed content = %+v, want one section", resp.ProcessedContent)
	}

	if sys.cmd.Filename != "nda.pdf" {
		t.Errorf("ingest filename = %q, want %q", sys.cmd.Filename, "nda.pdf")
	}
	if sys.cmd.DocumentType != "nda" {
		t.Errorf("ingest document type = %q, want %q", sys.cmd.DocumentType, "nda")
	}
	if string(sys.cmd.Data) != "%PDF-1.7 fake" {
		t.Errorf("ingest data = %q, want file bytes", sys.cmd.Data)
	}
}

func TestUploadMissingFile(t *testing.T) {
	sys := &fakeIngester{}
	handler := sys.Handler(1024 * 1024)

	body, contentType := multipartBody(t, "", nil, map[string]string{"document_type": "nda"})
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUploadNotMultipart(t *testing.T) {
	sys := &fakeIngester{}
	handler := sys.Handler(1024 * 1024)

	req := httptest.NewRequest("POST", "/", bytes.NewBufferString("raw body"))
	req.Header.Set("Content-Type", "application/pdf")
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUploadTooLarge(t *testing.T) {
	sys := &fakeIngester{}
	handler := sys.Handler(64)

	body, contentType := multipartBody(t, "big.pdf", bytes.Repeat([]byte("a"), 4096), nil)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestUploadIngestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid file", intake.ErrInvalidFile, http.StatusBadRequest},
		{"processing failure", fmt.Errorf("%w: model down", intake.ErrProcessing), http.StatusBadGateway},
		{"duplicate document", documents.ErrDuplicate, http.StatusConflict},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &fakeIngester{err: tt.err}
			handler := sys.Handler(1024 * 1024)

			body, contentType := multipartBody(t, "nda.pdf", []byte("%PDF-1.7"), nil)
			req := httptest.NewRequest("POST", "/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.Upload(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
