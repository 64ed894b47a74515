// Package queue drains batches of candidate PDF uploads through a single
// consumer, one file at a time, publishing per-item lifecycle state.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/able2/able2-cli/internal/api"
)

// Status is the lifecycle state of a queue item. Completed and failed are
// terminal; items never transition backward.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// File is a validated upload candidate.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// Item is one queued upload. ID is process-local and never persisted.
type Item struct {
	ID     string
	File   File
	Status Status
	Err    string
}

// Uploader is the one remote operation the queue needs. *api.Client
// satisfies it.
type Uploader interface {
	UploadDocument(ctx context.Context, name, contentType string, data []byte) (*api.Document, error)
}

// DefaultPruneDelay is how long terminal items stay visible after a drain
// finishes.
const DefaultPruneDelay = 3 * time.Second

// Manager owns the queue. All mutation goes through its methods; at most
// one drain goroutine runs at a time.
type Manager struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []*Item
	draining bool

	uploader   Uploader
	validator  *Validator
	pruneDelay time.Duration

	onSuccess func(api.Document)
	onError   func(fileName, message string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithPruneDelay overrides how long completed items linger after a drain.
func WithPruneDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.pruneDelay = d
		}
	}
}

// WithValidator overrides the default validator.
func WithValidator(v *Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// OnSuccess registers the side-channel fired with each ingested Document.
// Called from the drain goroutine.
func OnSuccess(fn func(api.Document)) Option {
	return func(m *Manager) { m.onSuccess = fn }
}

// OnError registers the side-channel fired with each failed item's
// normalized message. Called from the drain goroutine.
func OnError(fn func(fileName, message string)) Option {
	return func(m *Manager) { m.onError = fn }
}

// New creates an idle Manager draining through uploader.
func New(uploader Uploader, opts ...Option) *Manager {
	m := &Manager{
		uploader:   uploader,
		validator:  NewValidator(MaxFileSize, false),
		pruneDelay: DefaultPruneDelay,
	}
	m.cond = sync.NewCond(&m.mu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit validates the batch, appends accepted files as pending items in
// their original order, and starts the drain goroutine if one is not
// already running. Rejected files are returned for advisory display and
// never enter the queue.
func (m *Manager) Submit(files []File) []Rejection {
	var accepted []*Item
	var rejected []Rejection
	for _, f := range files {
		if rej := m.validator.Check(f); rej != nil {
			rejected = append(rejected, *rej)
			continue
		}
		accepted = append(accepted, &Item{
			ID:     uuid.NewString(),
			File:   f,
			Status: StatusPending,
		})
	}
	if len(accepted) == 0 {
		return rejected
	}

	m.mu.Lock()
	m.removeTerminal()
	m.items = append(m.items, accepted...)
	start := !m.draining
	if start {
		m.draining = true
	}
	m.mu.Unlock()

	if start {
		go m.drain()
	}
	return rejected
}

// drain processes pending items strictly in FIFO order. It re-reads the
// live queue on every step, so items submitted mid-drain are picked up
// without a second drainer.
func (m *Manager) drain() {
	for {
		item := m.claimNext()
		if item == nil {
			return
		}
		doc, err := m.uploader.UploadDocument(context.Background(), item.File.Name, item.File.ContentType, item.File.Data)
		if err != nil {
			m.finish(item, StatusFailed, err.Error())
			if m.onError != nil {
				m.onError(item.File.Name, err.Error())
			}
			continue
		}
		m.finish(item, StatusCompleted, "")
		if m.onSuccess != nil {
			m.onSuccess(*doc)
		}
	}
}

// claimNext marks the first pending item as uploading and returns it. When
// none remains it clears the drain flag under the same lock, so a
// concurrent Submit either sees the drain still active or finds it cleanly
// stopped; a wakeup can never be lost between the two.
func (m *Manager) claimNext() *Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Status == StatusPending {
			it.Status = StatusUploading
			return it
		}
	}
	m.draining = false
	m.armPrune()
	m.cond.Broadcast()
	return nil
}

func (m *Manager) finish(item *Item, status Status, errMsg string) {
	m.mu.Lock()
	item.Status = status
	item.Err = errMsg
	m.mu.Unlock()
}

// armPrune schedules removal of completed items. Failed items are kept for
// visibility until the next Submit. Caller holds m.mu.
func (m *Manager) armPrune() {
	time.AfterFunc(m.pruneDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.draining {
			return
		}
		kept := m.items[:0]
		for _, it := range m.items {
			if it.Status != StatusCompleted {
				kept = append(kept, it)
			}
		}
		m.items = kept
	})
}

// removeTerminal drops all terminal items ahead of a new batch. Caller
// holds m.mu.
func (m *Manager) removeTerminal() {
	kept := m.items[:0]
	for _, it := range m.items {
		if it.Status == StatusPending || it.Status == StatusUploading {
			kept = append(kept, it)
		}
	}
	m.items = kept
}

// PruneDelay reports how long completed items linger after a drain.
func (m *Manager) PruneDelay() time.Duration { return m.pruneDelay }

// Items returns a snapshot of the queue in order.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = *it
	}
	return out
}

// Wait blocks until the current drain (if any) has finished.
func (m *Manager) Wait() {
	m.mu.Lock()
	for m.draining {
		m.cond.Wait()
	}
	m.mu.Unlock()
}
