package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryKind tags what a transcript entry holds.
type EntryKind string

const (
	KindInstruction EntryKind = "instruction"
	KindScript      EntryKind = "script"
	KindRaw         EntryKind = "raw"
	KindOutcome     EntryKind = "outcome"
)

// Entry is one transcript line.
type Entry struct {
	ID        string
	Kind      EntryKind
	Text      string
	Timestamp time.Time
}

// Transcript is the in-memory conversation record for one interactive
// session. It is discarded at process exit.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records an entry and returns its ID.
func (t *Transcript) Append(kind EntryKind, text string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.New().String()
	t.entries = append(t.entries, Entry{
		ID:        id,
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now(),
	})
	return id
}

// Entries returns a copy of the transcript in order.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

// Len reports the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
