// Package registry keeps the client's view of the uploaded corpus: an
// ordered, most-recent-first list of documents mirroring server state.
package registry

import (
	"context"
	"sync"

	"github.com/able2/able2-cli/internal/api"
)

// Client is the slice of the transport surface the registry needs.
type Client interface {
	ListDocuments(ctx context.Context) ([]api.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Registry is the sole owner of the document list.
type Registry struct {
	mu     sync.Mutex
	docs   []api.Document
	client Client
}

// New creates an empty registry backed by client.
func New(client Client) *Registry {
	return &Registry{client: client}
}

// Refresh replaces the list with the backend's current state. On transport
// failure the list resets to empty rather than exposing stale data, and the
// error is returned for a connectivity notification.
func (r *Registry) Refresh(ctx context.Context) error {
	docs, err := r.client.ListDocuments(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.docs = nil
		return err
	}
	r.docs = docs
	return nil
}

// RecordUploaded prepends doc so the display stays most-recent-first.
func (r *Registry) RecordUploaded(doc api.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append([]api.Document{doc}, r.docs...)
}

// RecordDeleted removes the matching document. Unknown ids are a no-op, so
// duplicate delete notifications are harmless.
func (r *Registry) RecordDeleted(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return
		}
	}
}

// Delete removes a document in two phases: the remote delete must succeed
// before the local list mutates.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.client.DeleteDocument(ctx, id); err != nil {
		return err
	}
	r.RecordDeleted(id)
	return nil
}

// Documents returns a copy of the current list.
func (r *Registry) Documents() []api.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Count reports the corpus size.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// IsEmpty reports whether no documents are known.
func (r *Registry) IsEmpty() bool { return r.Count() == 0 }
