package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	// DefaultBaseURL targets a locally running backend.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every remote call.
	DefaultTimeout = 30 * time.Second
)

// Client is a thin HTTP client for the research assistant backend. It
// normalizes all failures into *RequestError so callers never branch on
// transport-level detail.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given base URL (e.g., http://localhost:8000).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// UploadDocument sends raw PDF bytes as multipart field "file" and returns
// the ingested Document.
func (c *Client) UploadDocument(ctx context.Context, name, contentType string, data []byte) (*Document, error) {
	if contentType == "" {
		contentType = "application/pdf"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", contentType)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, newRequestError(OpUpload, 0, "", fmt.Errorf("build form: %w", err))
	}
	if _, err := part.Write(data); err != nil {
		return nil, newRequestError(OpUpload, 0, "", fmt.Errorf("write form: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, newRequestError(OpUpload, 0, "", fmt.Errorf("close form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return nil, newRequestError(OpUpload, 0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc Document
	if err := c.do(OpUpload, req, &doc); err != nil {
		return nil, err
	}
	if doc.ID == "" || doc.Name == "" {
		return nil, newRequestError(OpUpload, 0, "", fmt.Errorf("malformed upload response: missing id or name"))
	}
	return &doc, nil
}

// ListDocuments fetches the backend's full document set in its own order.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents", nil)
	if err != nil {
		return nil, newRequestError(OpList, 0, "", fmt.Errorf("build request: %w", err))
	}
	var docs []Document
	if err := c.do(OpList, req, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == "" {
			return nil, newRequestError(OpList, 0, "", fmt.Errorf("malformed document at index %d: missing id", i))
		}
	}
	return docs, nil
}

// DeleteDocument removes a document server-side.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/documents/"+id, nil)
	if err != nil {
		return newRequestError(OpDelete, 0, "", fmt.Errorf("build request: %w", err))
	}
	var ack DeleteAck
	return c.do(OpDelete, req, &ack)
}

// Chat asks a question against the corpus. A nil or empty documentIDs asks
// across every uploaded document.
func (c *Client) Chat(ctx context.Context, question string, documentIDs []string) (*ChatResponse, error) {
	payload, err := json.Marshal(ChatRequest{Question: question, DocumentIDs: documentIDs})
	if err != nil {
		return nil, newRequestError(OpChat, 0, "", fmt.Errorf("marshal request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, newRequestError(OpChat, 0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	var resp chatResponseWire
	if err := c.do(OpChat, req, &resp); err != nil {
		return nil, err
	}
	if resp.Answer == nil {
		return nil, newRequestError(OpChat, 0, "", fmt.Errorf("malformed chat response: missing answer"))
	}
	return &ChatResponse{Answer: *resp.Answer, Sources: resp.Sources, Timestamp: resp.Timestamp}, nil
}

// chatResponseWire distinguishes an absent answer field from an empty one.
type chatResponseWire struct {
	Answer    *string             `json:"answer"`
	Sources   []SourceAttribution `json:"sources"`
	Timestamp Timestamp           `json:"timestamp"`
}

// Health reports backend liveness.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, newRequestError(OpHealth, 0, "", fmt.Errorf("build request: %w", err))
	}
	var hs HealthStatus
	if err := c.do(OpHealth, req, &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}

// do executes the request and decodes a success body into out. Any failure
// mode collapses into a *RequestError for op.
func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newRequestError(op, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(op, resp.StatusCode, extractDetail(resp.Body), fmt.Errorf("unexpected status %s", resp.Status))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return newRequestError(op, resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// extractDetail pulls a human-readable message from an error body shaped
// like {"detail": "..."} or {"error": "..."}.
func extractDetail(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 8<<10))
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	if msg, ok := raw["detail"].(string); ok {
		return msg
	}
	if msg, ok := raw["error"].(string); ok {
		return msg
	}
	return ""
}
