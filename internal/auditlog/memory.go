package auditlog

import (
	"context"
	"sync"
)

// MemorySink is an in-process Sink, for tests and for deployments that
// accept losing the audit trail across restarts.
type MemorySink struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.Raw = append([]byte(nil), rec.Raw...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything appended so far, for assertions in
// tests.
func (s *MemorySink) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemorySink) Close() error { return nil }
