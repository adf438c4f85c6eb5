package usecases

import (
	"unicode/utf8"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

// MemoryBuffer is a token-bounded, ordered conversation buffer. It is owned
// by exactly one ChatSession and is not safe for concurrent use on its own;
// the session serializes access.
//
// Eviction is whole-exchange only: when the token budget is exceeded, the
// oldest user+assistant pair is dropped. A message is never truncated
// mid-content, and the buffer never ends up holding a user message without
// its matching reply.
type MemoryBuffer struct {
	messages    []entities.Message
	tokenBudget int
}

// NewMemoryBuffer creates an empty buffer with the given token budget.
func NewMemoryBuffer(tokenBudget int) *MemoryBuffer {
	if tokenBudget <= 0 {
		tokenBudget = 1024
	}
	return &MemoryBuffer{tokenBudget: tokenBudget}
}

// AppendExchange appends one completed user/assistant exchange, then evicts
// oldest exchanges until the buffer fits its budget again. Appending as a
// pair keeps a failed generation call from leaving an orphaned user turn.
func (b *MemoryBuffer) AppendExchange(userContent, assistantContent string) {
	b.messages = append(b.messages,
		entities.Message{Role: entities.RoleUser, Content: userContent},
		entities.Message{Role: entities.RoleAssistant, Content: assistantContent},
	)
	b.evict()
}

// Messages returns a copy of the buffer contents in conversation order.
func (b *MemoryBuffer) Messages() []entities.Message {
	out := make([]entities.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of buffered messages.
func (b *MemoryBuffer) Len() int { return len(b.messages) }

// TokenCount returns the estimated token footprint of the buffer.
func (b *MemoryBuffer) TokenCount() int {
	total := 0
	for _, m := range b.messages {
		total += estimateTokens(m.Content)
	}
	return total
}

// RecentContent returns the content of the most recent user/assistant
// messages, capped at max entries, in chronological order. This is the
// read-only projection handed back to API callers; role labels and any
// system text are excluded.
func (b *MemoryBuffer) RecentContent(max int) []string {
	var visible []string
	for _, m := range b.messages {
		if (m.Role == entities.RoleUser || m.Role == entities.RoleAssistant) && m.Content != "" {
			visible = append(visible, m.Content)
		}
	}
	if len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	return visible
}

// evict drops oldest exchanges until the buffer fits its token budget.
// The newest exchange is always kept, even if it alone exceeds the budget;
// evicting the turn that was just completed would make every oversized
// question erase itself.
func (b *MemoryBuffer) evict() {
	for b.TokenCount() > b.tokenBudget && len(b.messages) > 2 {
		b.messages = b.messages[2:]
	}
}

// estimateTokens approximates the token footprint of content. Hosted model
// tokenizers average roughly four characters per token for mixed prose;
// exact counts are the backend's concern, this only drives eviction.
func estimateTokens(content string) int {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
