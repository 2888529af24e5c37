package memory

import (
	"fmt"
	"strings"
	"sync"

	"knowledge/internal/domain"
)

// SessionMemory is a capacity-bounded, ordered record of past
// query/answer turns within one conversational session. Appending past
// capacity evicts the oldest turn; turns are never reordered or edited.
// A mutex guards the buffer for sessions that see concurrent requests.
type SessionMemory struct {
	mu       sync.Mutex
	turns    []domain.ConversationTurn
	capacity int
	window   int
}

// Stats summarizes a session memory.
type Stats struct {
	Turns    int `json:"turns"`
	Capacity int `json:"capacity"`
	Window   int `json:"window"`
}

// NewSessionMemory creates an empty session memory.
func NewSessionMemory(capacity, window int) *SessionMemory {
	if capacity <= 0 {
		capacity = 10
	}
	if window <= 0 {
		window = 3
	}
	return &SessionMemory{
		capacity: capacity,
		window:   window,
	}
}

// AddTurn appends a completed turn, evicting the oldest when full.
func (m *SessionMemory) AddTurn(turn domain.ConversationTurn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, turn)
	if len(m.turns) > m.capacity {
		m.turns = m.turns[len(m.turns)-m.capacity:]
	}
}

// Context renders the most recent min(window, turns) turns into a
// prompt-facing block, oldest of the selected window first. No turns
// yields an empty string.
func (m *SessionMemory) Context(window int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.turns) == 0 {
		return ""
	}
	if window <= 0 {
		window = m.window
	}

	start := len(m.turns) - window
	if start < 0 {
		start = 0
	}
	recent := m.turns[start:]

	var b strings.Builder
	b.WriteString("## Recent Conversation History\n")
	for i, turn := range recent {
		fmt.Fprintf(&b, "\n### Turn %d:\n", i+1)
		fmt.Fprintf(&b, "**Customer:** %s\n", turn.Query)
		fmt.Fprintf(&b, "**Response:** %s\n", truncateAnswer(turn.Answer, 200))
		fmt.Fprintf(&b, "**Action:** %s\n", turn.Action)
	}
	return b.String()
}

// WindowContext renders the configured context window.
func (m *SessionMemory) WindowContext() string {
	return m.Context(m.window)
}

// Clear removes all turns.
func (m *SessionMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
}

// Statistics reports the current turn count and configuration.
func (m *SessionMemory) Statistics() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Turns:    len(m.turns),
		Capacity: m.capacity,
		Window:   m.window,
	}
}

// Turns returns a copy of the retained turns, oldest first.
func (m *SessionMemory) Turns() []domain.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ConversationTurn(nil), m.turns...)
}

func truncateAnswer(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
