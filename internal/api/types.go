package api

import (
	"fmt"
	"strings"
	"time"
)

// Document is the backend's record of one ingested PDF.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileType  string    `json:"file_type,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt Timestamp `json:"created_at"`
	FileSize  int64     `json:"file_size"`
}

// SourceAttribution is one retrieved passage backing an answer.
// RelevanceScore is normalized to [0,1]; the slice order is the backend's
// ranking and must not be re-sorted.
type SourceAttribution struct {
	DocumentID     string  `json:"document_id"`
	DocumentName   string  `json:"document_name"`
	ChunkContent   string  `json:"chunk_content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ChatRequest is the body of POST /chat. An empty DocumentIDs means the
// backend searches the full corpus.
type ChatRequest struct {
	Question    string   `json:"question"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// ChatResponse carries the synthesized answer and its ranked sources.
type ChatResponse struct {
	Answer    string              `json:"answer"`
	Sources   []SourceAttribution `json:"sources"`
	Timestamp Timestamp           `json:"timestamp"`
}

// HealthStatus is the GET /health payload.
type HealthStatus struct {
	Status         string    `json:"status"`
	VectorDBStatus string    `json:"vector_db_status"`
	DocumentsCount int       `json:"documents_count"`
	Timestamp      Timestamp `json:"timestamp"`
}

// DeleteAck acknowledges DELETE /documents/{id}.
type DeleteAck struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

// Timestamp wraps time.Time to accept both RFC3339 and the zone-less ISO
// form the backend emits for naive datetimes.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
