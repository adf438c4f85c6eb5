package usecases

import (
	"strings"
	"testing"

	"github.com/coderngaonger/rorishop.io/internal/domain/entities"
)

func TestMemoryBuffer_AppendExchange(t *testing.T) {
	buf := NewMemoryBuffer(1024)
	buf.AppendExchange("question", "answer")

	msgs := buf.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != entities.RoleUser || msgs[0].Content != "question" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != entities.RoleAssistant || msgs[1].Content != "answer" {
		t.Errorf("unexpected assistant message: %+v", msgs[1])
	}
}

func TestMemoryBuffer_EvictsWholeExchangesOldestFirst(t *testing.T) {
	// ~25 tokens per message, so a budget of 120 holds two exchanges but
	// not three.
	content := strings.Repeat("x", 100)
	buf := NewMemoryBuffer(120)

	buf.AppendExchange("first "+content, "reply one "+content)
	buf.AppendExchange("second "+content, "reply two "+content)
	buf.AppendExchange("third "+content, "reply three "+content)

	if got := buf.TokenCount(); got > 120 {
		t.Errorf("buffer over budget after eviction: %d tokens", got)
	}

	msgs := buf.Messages()
	if len(msgs)%2 != 0 {
		t.Fatalf("eviction split an exchange: %d messages remain", len(msgs))
	}
	for _, m := range msgs {
		if strings.HasPrefix(m.Content, "first") || m.Content == "reply one "+content {
			t.Errorf("oldest exchange should have been evicted, found %q", m.Content[:10])
		}
	}
	// Newest exchange always survives intact.
	last := msgs[len(msgs)-1]
	if !strings.HasPrefix(last.Content, "reply three") {
		t.Errorf("newest reply missing, got %q", last.Content[:10])
	}
}

func TestMemoryBuffer_NeverTruncatesMessageContent(t *testing.T) {
	long := strings.Repeat("size chart ", 200)
	buf := NewMemoryBuffer(64)
	buf.AppendExchange("q", long)

	// The single exchange exceeds the budget on its own; it is kept whole
	// rather than clipped.
	msgs := buf.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected the exchange to survive, got %d messages", len(msgs))
	}
	if msgs[1].Content != long {
		t.Error("assistant content was truncated")
	}
}

func TestMemoryBuffer_RecentContentCap(t *testing.T) {
	buf := NewMemoryBuffer(100000)
	for i := 0; i < 6; i++ {
		buf.AppendExchange("q", "a")
	}

	recent := buf.RecentContent(8)
	if len(recent) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(recent))
	}
}

func TestMemoryBuffer_RecentContentChronological(t *testing.T) {
	buf := NewMemoryBuffer(100000)
	buf.AppendExchange("q1", "a1")
	buf.AppendExchange("q2", "a2")

	recent := buf.RecentContent(8)
	want := []string{"q1", "a1", "q2", "a2"}
	if len(recent) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(recent))
	}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], recent[i])
		}
	}
}

func TestMemoryBuffer_TokenCountEmpty(t *testing.T) {
	buf := NewMemoryBuffer(1024)
	if buf.TokenCount() != 0 {
		t.Error("empty buffer should have zero tokens")
	}
	if got := buf.RecentContent(8); len(got) != 0 {
		t.Errorf("empty buffer should project empty history, got %v", got)
	}
}
