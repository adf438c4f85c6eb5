// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
	"github.com/coderngaonger/rorishop.io/internal/domain/ports"
)

// SessionConfig is the immutable configuration of a chat session.
// Reconstructing the session from it is the only way to reset.
type SessionConfig struct {
	Persona     string        // fixed persona instruction, re-supplied on every call
	TopK        int           // retrieval breadth
	TokenBudget int           // conversation buffer budget
	HistorySize int           // cap on the returned history projection
	CallTimeout time.Duration // per-exchange deadline on the backend call
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = 1024
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 8
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 60 * time.Second
	}
	return c
}

// ChatSession owns one customer's dialogue state and mediates every call to
// the generation backend. One session serves the whole process; Send and
// Reset are serialized by a mutex, so two user messages can never interleave
// in the buffer and a reset can never race an in-flight exchange.
type ChatSession struct {
	mu     sync.Mutex
	engine ports.AnswerEngine
	cfg    SessionConfig
	buffer *MemoryBuffer
}

// NewChatSession creates a ChatSession with an injected answer engine.
func NewChatSession(engine ports.AnswerEngine, cfg SessionConfig) *ChatSession {
	cfg = cfg.withDefaults()
	return &ChatSession{
		engine: engine,
		cfg:    cfg,
		buffer: NewMemoryBuffer(cfg.TokenBudget),
	}
}

// Send issues one retrieval-augmented exchange for message and returns the
// answer plus the recent history projection.
//
// The caller (the HTTP layer) guarantees message is non-empty after
// trimming; that validation is not duplicated here.
//
// Nothing is committed to the buffer until the backend call succeeds, so a
// failed exchange leaves no orphaned user turn behind.
func (s *ChatSession) Send(ctx context.Context, message string) (*entities.ChatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	answer, err := s.engine.RetrieveAndGenerate(callCtx, s.cfg.Persona, s.buffer.Messages(), message, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.buffer.AppendExchange(message, answer)

	return &entities.ChatResult{
		Answer:  answer,
		History: s.buffer.RecentContent(s.cfg.HistorySize),
	}, nil
}

// Reset discards the conversation buffer and rebuilds the session from its
// unchanged configuration. Idempotent.
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = NewMemoryBuffer(s.cfg.TokenBudget)
}
