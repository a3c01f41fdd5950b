package agent

import (
	"github.com/google/uuid"

	"cortexd/internal/symbol"
)

// EntryKind classifies a working-memory entry.
type EntryKind int

const (
	EntryObservation EntryKind = iota
	EntryHypothesis
	EntryFact
	EntryPlanStep
)

func (k EntryKind) String() string {
	switch k {
	case EntryObservation:
		return "observation"
	case EntryHypothesis:
		return "hypothesis"
	case EntryFact:
		return "fact"
	case EntryPlanStep:
		return "plan_step"
	default:
		return "unknown"
	}
}

// Entry is one scratch record in working memory.
type Entry struct {
	ID        string
	Kind      EntryKind
	Text      string
	CreatedAt int64
	Symbols   []symbol.ID
	Salience  *float64
}

// WorkingMemory is a capacity-bounded FIFO scratch buffer: once full, adding
// a new entry evicts the oldest one, matching the teacher's
// insertion-ordered result-cache pruning.
type WorkingMemory struct {
	capacity int
	order    []string
	entries  map[string]Entry
}

// NewWorkingMemory returns an empty WorkingMemory holding at most capacity
// entries (capacity <= 0 is treated as 1).
func NewWorkingMemory(capacity int) *WorkingMemory {
	if capacity <= 0 {
		capacity = 1
	}
	return &WorkingMemory{capacity: capacity, entries: make(map[string]Entry)}
}

// Add inserts entry (assigning it a fresh ID and the caller's now as its
// timestamp), evicting the
// oldest entry if the buffer is now over capacity. Returns the assigned ID.
func (m *WorkingMemory) Add(kind EntryKind, text string, symbols []symbol.ID, now int64) string {
	id := uuid.NewString()
	m.entries[id] = Entry{ID: id, Kind: kind, Text: text, CreatedAt: now, Symbols: symbols}
	m.order = append(m.order, id)

	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	return id
}

// Len reports how many entries are currently held.
func (m *WorkingMemory) Len() int { return len(m.order) }

// Entries returns every entry, oldest first.
func (m *WorkingMemory) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out
}

// Newest returns the n most recently added entries, newest first. n <= 0
// returns every entry, newest first.
func (m *WorkingMemory) Newest(n int) []Entry {
	all := m.Entries()
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = all[len(all)-1-i]
	}
	return out
}
