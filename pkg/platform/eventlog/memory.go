package eventlog

import (
	"context"
	"sync"
)

// InMemoryLog is the default sink: an append-only slice guarded by a mutex.
// Snapshot exists for observers and tests; components themselves never read
// the log.
type InMemoryLog struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

func (l *InMemoryLog) Append(_ context.Context, record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// Snapshot returns a copy of all records in append order.
func (l *InMemoryLog) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record{}, l.records...)
}

// Len returns the number of appended records.
func (l *InMemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
