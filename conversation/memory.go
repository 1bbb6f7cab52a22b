package conversation

import (
	"sync"

	"github.com/poiesic/studyhall/core"
)

// Memory is the append-only log of question/answer turns for one
// conversation. It grows without bound for the life of the process; that is
// a known limitation of the design, not something to silently cap.
type Memory struct {
	mu    sync.Mutex
	turns []core.Turn
}

// NewMemory creates an empty conversation memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records a completed question/answer turn.
func (m *Memory) Append(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, core.Turn{Question: question, Answer: answer})
}

// History returns all recorded turns, oldest first.
// The returned slice is a copy; callers may not mutate stored turns.
func (m *Memory) History() []core.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := make([]core.Turn, len(m.turns))
	copy(history, m.turns)
	return history
}

// Len returns the number of recorded turns.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}
