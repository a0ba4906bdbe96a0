package serial

import (
	"strings"
	"sync"
)

// EntryLog is the append-only sequence of entries kept by a front-end.
// It is only emptied by an explicit Clear.
type EntryLog struct {
	mu      sync.RWMutex
	entries []DataEntry
}

// NewEntryLog returns an empty log.
func NewEntryLog() *EntryLog {
	return &EntryLog{entries: make([]DataEntry, 0, 256)}
}

// Append adds entries in the order given.
func (l *EntryLog) Append(entries ...DataEntry) {
	if len(entries) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entries...)
}

// Entries returns a copy of the log in creation order.
func (l *EntryLog) Entries() []DataEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]DataEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *EntryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry.
func (l *EntryLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Format renders the whole log, one entry per line, for saving to a file.
func (l *EntryLog) Format(opts FormatOptions) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(FormatEntry(e, opts))
		b.WriteByte('\n')
	}
	return b.String()
}
