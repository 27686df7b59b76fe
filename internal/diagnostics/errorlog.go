// Package diagnostics keeps the most recent error log records in memory so
// they can be inspected without shell access to the host.
package diagnostics

import (
	"strconv"
	"sync"
	"time"
)

const DefaultCapacity = 100

type Entry struct {
	Seq     uint64            `json:"seq"`
	Time    time.Time         `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// ErrorLog is a fixed size ring of entries; once full, the oldest entry is
// overwritten.
type ErrorLog struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	seq     uint64
}

func NewErrorLog(capacity int) *ErrorLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ErrorLog{entries: make([]Entry, capacity)}
}

func (l *ErrorLog) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e.Seq = l.seq
	l.entries[l.next] = e
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Entries returns the retained entries, newest first.
func (l *ErrorLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.entries)
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.entries)) % len(l.entries)
		out = append(out, l.entries[idx])
	}
	return out
}

// EntriesForUser keeps only the entries logged with the user's user_id
// attribute, newest first.
func (l *ErrorLog) EntriesForUser(userID int64) []Entry {
	id := strconv.FormatInt(userID, 10)
	all := l.Entries()
	out := all[:0]
	for _, e := range all {
		if e.Attrs["user_id"] == id {
			out = append(out, e)
		}
	}
	return out
}

func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		return len(l.entries)
	}
	return l.next
}

func (l *ErrorLog) Capacity() int {
	return len(l.entries)
}
