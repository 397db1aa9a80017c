// Package correlation implements the per-session correlation table (C4): a
// mutex-guarded map from client transaction id to the reply sink and
// decoder awaiting that response, per spec.md §4.2.
package correlation

import (
	"fmt"
	"sync"

	"github.com/eppproxy/eppproxy/internal/errors"
	"github.com/eppproxy/eppproxy/internal/wire"
)

// Decoder parses a decoded response envelope into a caller-visible result
// and delivers it to whatever sink the pending request was registered with.
// Implementations live in internal/registry; correlation only needs to
// invoke them.
type Decoder func(resp *wire.Response) (any, error)

// Sink is a single-use reply channel. Deliver must be safe to call exactly
// once; a second call is a programmer error.
type Sink interface {
	Deliver(result any, err error)
}

// FuncSink adapts a plain function to Sink, used by the facade to complete a
// caller's channel.
type FuncSink func(result any, err error)

func (f FuncSink) Deliver(result any, err error) { f(result, err) }

type pending struct {
	sink    Sink
	decoder Decoder
}

// Table is the per-session correlation table. The zero value is ready to
// use. Expected contention is one writer (the dispatcher) and one reader
// (the receive loop), per spec.md §4.2.
type Table struct {
	mu      sync.Mutex
	entries map[string]pending
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]pending)}
}

// Insert registers a pending request under id. It is an invariant violation
// for id to already be present (the id source is a UUIDv4-equivalent
// generator; per spec.md §3 the birthday bound is treated as safe), so a
// collision is reported rather than silently overwritten.
func (t *Table) Insert(id string, sink Sink, decoder Decoder) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[id]; exists {
		return fmt.Errorf("correlation table: duplicate transaction id %q", id)
	}
	t.entries[id] = pending{sink: sink, decoder: decoder}
	return nil
}

// Take removes and returns the pending entry for id, if any.
func (t *Table) Take(id string) (Sink, Decoder, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.entries[id]
	if !ok {
		return nil, nil, false
	}
	delete(t.entries, id)
	return p.sink, p.decoder, true
}

// Len reports the number of pending entries, for tests and diagnostics.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Drain removes every pending entry and delivers NotReady to each sink, per
// spec.md §4.6.7 ("requests already accepted and in flight are delivered
// NotReady when the correlation table drains") and testable property 4.
func (t *Table) Drain(reason string) {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]pending)
	t.mu.Unlock()

	for _, p := range entries {
		p.sink.Deliver(nil, errors.NotReady(reason))
	}
}
