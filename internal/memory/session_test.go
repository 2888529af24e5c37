package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"knowledge/internal/domain"
)

func turn(i int) domain.ConversationTurn {
	return domain.ConversationTurn{
		Query:     fmt.Sprintf("question %d", i),
		Answer:    fmt.Sprintf("answer %d", i),
		Action:    domain.ActionNone,
		Timestamp: time.Now(),
	}
}

func TestMemoryEvictsOldestPastCapacity(t *testing.T) {
	m := NewSessionMemory(10, 3)

	for i := 1; i <= 12; i++ {
		m.AddTurn(turn(i))
	}

	turns := m.Turns()
	if len(turns) != 10 {
		t.Fatalf("expected exactly 10 retained turns, got %d", len(turns))
	}
	if turns[0].Query != "question 3" {
		t.Errorf("oldest retained turn should be question 3, got %q", turns[0].Query)
	}
	if turns[9].Query != "question 12" {
		t.Errorf("newest retained turn should be question 12, got %q", turns[9].Query)
	}
}

func TestMemoryContextWindow(t *testing.T) {
	m := NewSessionMemory(10, 3)
	for i := 1; i <= 12; i++ {
		m.AddTurn(turn(i))
	}

	ctx := m.Context(3)

	for i := 10; i <= 12; i++ {
		if !strings.Contains(ctx, fmt.Sprintf("question %d", i)) {
			t.Errorf("context missing turn %d", i)
		}
	}
	if strings.Contains(ctx, "question 9") {
		t.Error("context included a turn outside the window")
	}

	// Oldest of the selected window renders first.
	if strings.Index(ctx, "question 10") > strings.Index(ctx, "question 12") {
		t.Error("window must render oldest-first")
	}
}

func TestMemoryEmptyContext(t *testing.T) {
	m := NewSessionMemory(10, 3)
	if got := m.Context(3); got != "" {
		t.Fatalf("empty memory must render an empty string, got %q", got)
	}
}

func TestMemoryWindowLargerThanTurns(t *testing.T) {
	m := NewSessionMemory(10, 3)
	m.AddTurn(turn(1))
	m.AddTurn(turn(2))

	ctx := m.Context(5)
	if !strings.Contains(ctx, "question 1") || !strings.Contains(ctx, "question 2") {
		t.Error("window larger than turn count should include everything")
	}
}

func TestMemoryAnswerTruncation(t *testing.T) {
	m := NewSessionMemory(10, 3)
	long := strings.Repeat("x", 400)
	m.AddTurn(domain.ConversationTurn{Query: "q", Answer: long, Action: domain.ActionNone})

	ctx := m.Context(1)
	if strings.Contains(ctx, long) {
		t.Error("long answers must be truncated in the rendered context")
	}
	if !strings.Contains(ctx, strings.Repeat("x", 200)+"...") {
		t.Error("truncated answer should end with an ellipsis")
	}
}

func TestMemoryClearAndStatistics(t *testing.T) {
	m := NewSessionMemory(10, 3)
	for i := 0; i < 4; i++ {
		m.AddTurn(turn(i))
	}

	stats := m.Statistics()
	if stats.Turns != 4 || stats.Capacity != 10 || stats.Window != 3 {
		t.Errorf("unexpected statistics: %+v", stats)
	}

	m.Clear()
	if m.Statistics().Turns != 0 {
		t.Error("clear must drop all turns")
	}
	if m.Context(3) != "" {
		t.Error("context after clear must be empty")
	}
}
