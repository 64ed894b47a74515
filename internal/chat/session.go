// Package chat maintains the question/answer transcript and the
// one-request-in-flight ask state machine.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/able2/able2-cli/internal/api"
)

// TurnType labels who produced a transcript turn.
type TurnType string

const (
	TurnUser      TurnType = "user"
	TurnAssistant TurnType = "assistant"
	TurnError     TurnType = "error"
)

// Turn is one transcript entry. Assistant turns carry the backend's ranked
// sources, order preserved.
type Turn struct {
	ID        string
	Type      TurnType
	Content   string
	Sources   []api.SourceAttribution
	Timestamp time.Time
}

// Asker is the slice of the transport surface the session needs.
type Asker interface {
	Chat(ctx context.Context, question string, documentIDs []string) (*api.ChatResponse, error)
}

// Corpus reports how many documents are available to ask against.
type Corpus interface {
	Count() int
}

// Fail-fast rejections. None of these produce a transcript entry or a
// network call.
var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrNoDocuments   = errors.New("no documents uploaded")
	ErrBusy          = errors.New("a question is already being answered")
)

// errTurnMessage is the fixed user-safe content of an error turn; the real
// cause goes to the log only.
const errTurnMessage = "Sorry, something went wrong answering that. Please try again."

// Session owns the transcript. At most one Ask is in flight at a time; a
// second Ask while one is pending is refused, not queued.
type Session struct {
	mu       sync.Mutex
	turns    []Turn
	inFlight bool

	client Asker
	corpus Corpus
	logger *slog.Logger
}

// New creates an empty session.
func New(client Asker, corpus Corpus, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{client: client, corpus: corpus, logger: logger}
}

// Ask appends the user turn, issues exactly one chat request, and appends
// exactly one assistant or error turn once it resolves. The returned Turn
// is the response turn.
func (s *Session) Ask(ctx context.Context, question string, documentIDs []string) (*Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.corpus.Count() == 0 {
		s.mu.Unlock()
		return nil, ErrNoDocuments
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.inFlight = true
	s.turns = append(s.turns, Turn{
		ID:        uuid.NewString(),
		Type:      TurnUser,
		Content:   question,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()

	resp, err := s.client.Chat(ctx, question, documentIDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.logger.Error("chat request failed", "error", err)
		turn := Turn{
			ID:        uuid.NewString(),
			Type:      TurnError,
			Content:   errTurnMessage,
			Timestamp: time.Now(),
		}
		s.turns = append(s.turns, turn)
		return &turn, nil
	}

	turn := Turn{
		ID:        uuid.NewString(),
		Type:      TurnAssistant,
		Content:   resp.Answer,
		Sources:   resp.Sources,
		Timestamp: time.Now(),
	}
	s.turns = append(s.turns, turn)
	return &turn, nil
}

// Clear discards the whole transcript. Confirmation is the caller's job;
// once called, the clear is atomic.
func (s *Session) Clear() {
	s.mu.Lock()
	s.turns = nil
	s.mu.Unlock()
}

// Turns returns a copy of the transcript in append order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// InFlight reports whether a request is pending.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
