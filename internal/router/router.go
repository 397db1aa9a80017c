// Package router implements the domain/registry router (C7): mapping a
// registry id or a domain name to the session that owns it, per spec.md
// §4.5.
package router

import (
	"strings"
	"sync"
)

// SessionHandle is the narrow view of a session the router hands back to
// callers. internal/session.Session satisfies it.
type SessionHandle interface {
	RegistryID() string
}

type zoneEntry struct {
	handle     SessionHandle
	registryID string
}

// Router holds the id index and the zone (longest-DNS-suffix) index.
// Registrations are additive and happen once at startup (spec.md §3); there
// is no runtime removal.
type Router struct {
	mu    sync.RWMutex
	byID  map[string]SessionHandle
	byZone map[string]zoneEntry
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		byID:   make(map[string]SessionHandle),
		byZone: make(map[string]zoneEntry),
	}
}

// RegisterID adds or replaces the session registered under registryID.
func (r *Router) RegisterID(registryID string, handle SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[registryID] = handle
}

// RegisterZone associates zone (a dot-separated DNS label suffix, matched
// case-insensitively) with a session and its registry id. Registering the
// same zone twice silently overwrites the earlier registration — a
// configuration error that spec.md §4.5 documents rather than rejects.
func (r *Router) RegisterZone(zone string, handle SessionHandle, registryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byZone[normalizeZone(zone)] = zoneEntry{handle: handle, registryID: registryID}
}

func normalizeZone(zone string) string {
	return strings.ToLower(strings.Trim(zone, "."))
}

// ClientByID looks up a session directly by registry id.
func (r *Router) ClientByID(registryID string) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[registryID]
	return h, ok
}

// ClientByDomain lowercases domain, then tries progressively shorter
// dot-label suffixes (the full name first, dropping leftmost labels each
// time) and returns the session registered for the first matching zone —
// the longest-suffix match, per spec.md §4.5 and testable property 6.
func (r *Router) ClientByDomain(domain string) (SessionHandle, string, bool) {
	labels := strings.Split(strings.ToLower(strings.Trim(domain, ".")), ".")

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := 0; i < len(labels); i++ {
		suffix := strings.Join(labels[i:], ".")
		if entry, ok := r.byZone[suffix]; ok {
			return entry.handle, entry.registryID, true
		}
	}
	return nil, "", false
}
