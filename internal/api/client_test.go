package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUploadDocumentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart field file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "report.pdf" {
			t.Errorf("filename = %q, want report.pdf", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         "doc-1",
			"name":       header.Filename,
			"file_type":  "pdf",
			"summary":    "A short synopsis.",
			"created_at": "2025-06-01T10:30:00.123456",
			"file_size":  len(data),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	payload := []byte("%PDF-1.4 test bytes")
	doc, err := c.UploadDocument(context.Background(), "report.pdf", "application/pdf", payload)
	if err != nil {
		t.Fatalf("UploadDocument returned error: %v", err)
	}
	if doc.ID != "doc-1" || doc.Name != "report.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.FileSize != int64(len(payload)) {
		t.Fatalf("file_size = %d, want %d", doc.FileSize, len(payload))
	}
	if doc.CreatedAt.IsZero() {
		t.Fatal("created_at was not parsed")
	}
}

func TestUploadErrorUsesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Only PDF files are supported"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	_, err := c.UploadDocument(context.Background(), "bad.txt", "text/plain", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Message != "Only PDF files are supported" {
		t.Fatalf("message = %q, want backend detail", reqErr.Message)
	}
	if reqErr.Op != OpUpload || reqErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected normalization: %+v", reqErr)
	}
}

func TestNetworkFailureFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListDocuments(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.Message != fallbackMessages[OpList] {
		t.Fatalf("message = %q, want generic list message", reqErr.Message)
	}
	if reqErr.Unwrap() == nil {
		t.Fatal("underlying cause must be retained for logging")
	}
}

func TestMalformedUploadPayloadIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "no-id.pdf"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.UploadDocument(context.Background(), "no-id.pdf", "application/pdf", []byte("x"))
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError for malformed payload, got %v", err)
	}
}

func TestChatPreservesSourceOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			http.NotFound(w, r)
			return
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		if req.Question != "What are the main findings?" {
			t.Errorf("question = %q", req.Question)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer": "The findings are X.",
			"sources": []map[string]any{
				{"document_id": "a", "document_name": "doc A", "chunk_content": "alpha", "relevance_score": 0.92},
				{"document_id": "b", "document_name": "doc B", "chunk_content": "beta", "relevance_score": 0.41},
			},
			"timestamp": "2025-06-01T10:30:00",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	resp, err := c.Chat(context.Background(), "What are the main findings?", nil)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(resp.Sources))
	}
	if resp.Sources[0].DocumentName != "doc A" || resp.Sources[1].DocumentName != "doc B" {
		t.Fatalf("source order not preserved: %+v", resp.Sources)
	}
	if resp.Sources[0].RelevanceScore != 0.92 {
		t.Fatalf("score = %v, want 0.92", resp.Sources[0].RelevanceScore)
	}
}

func TestChatMissingAnswerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"sources": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Chat(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected error for missing answer field")
	}
}

func TestDeleteDocumentTargetsDocumentPath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewEncoder(w).Encode(DeleteAck{Message: "Document deleted successfully", DocumentID: "doc-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.DeleteDocument(context.Background(), "doc-9"); err != nil {
		t.Fatalf("DeleteDocument returned error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/documents/doc-9" {
		t.Fatalf("request was %s %s", gotMethod, gotPath)
	}
}

func TestListDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "name": "b.pdf", "summary": "", "created_at": "2025-06-02T08:00:00", "file_size": 10},
			{"id": "2", "name": "a.pdf", "summary": "", "created_at": "2025-06-01T08:00:00", "file_size": 20},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	docs, err := c.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "b.pdf" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":           "healthy",
			"vector_db_status": "healthy",
			"documents_count":  3,
			"timestamp":        "2025-06-01T10:30:00",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	hs, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if hs.Status != "healthy" || hs.DocumentsCount != 3 {
		t.Fatalf("unexpected health payload: %+v", hs)
	}
}
