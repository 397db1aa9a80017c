// Package auditlog implements the Log Sink (C3): an append-only, per-tenant
// store of raw XML frames sent to and received from each registry, per
// spec.md §3/§4.6's "append send/receive XML copies to a per-tenant store;
// opaque" description. The sink itself never parses or validates what it is
// given — that's the whole point of "opaque".
package auditlog

import (
	"context"
	"time"
)

// Direction distinguishes a sent command frame from a received response
// frame in the audit trail.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Record is one opaque XML frame captured for a registry.
type Record struct {
	RegistryID string
	Direction  Direction
	Timestamp  time.Time
	Raw        []byte
}

// Sink is implemented by every Log Sink backend (memory, badger, s3).
// Append must not mutate raw; callers may reuse the buffer after it returns.
type Sink interface {
	Append(ctx context.Context, rec Record) error
	// Close releases any resources the sink holds (file handles, DB handles).
	// It is safe to call Close on a Sink that was never used.
	Close() error
}
