/*
Package presence tracks which user identities currently hold a live connection.

The registry keeps at most one connection handle per identity. Registering a
new handle replaces the previous one (last-connect-wins, so a fresh tab evicts
a stale one), while unregistering is conditional: a disconnect event carrying
an old handle never evicts a newer connection registered in the meantime.
*/
package presence

import "sync"

// Handle is an opaque reference to one live client transport. The registry
// never calls it; owners of the registry use it to push events.
type Handle interface {
	// Enqueue offers data to the connection's outbound queue. It reports false
	// when the queue is full or the connection is closing; callers treat that
	// as a swallowed best-effort delivery, never as an error.
	Enqueue(data []byte) bool

	// Kick asks the connection to close because it was replaced.
	Kick(reason string)
}

// Entry pairs an identity with its live handle, as captured by Snapshot.
type Entry struct {
	Identity string
	Handle   Handle
}

// Registry maps identities to their current live connection handle.
// All operations are atomic single-key operations except Snapshot.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]Handle),
	}
}

// Register stores h as the live handle for identity, replacing any previous
// handle. It returns the replaced handle, if any, so the caller can kick it.
func (r *Registry) Register(identity string, h Handle) (prev Handle, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, replaced = r.conns[identity]
	r.conns[identity] = h
	return prev, replaced
}

// Unregister removes the entry for identity only if the stored handle is h.
// It reports whether an entry was removed. A disconnect for a handle that has
// already been replaced is a no-op.
func (r *Registry) Unregister(identity string, h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.conns[identity]
	if !ok || cur != h {
		return false
	}
	delete(r.conns, identity)
	return true
}

// Lookup returns the live handle for identity. Absence is not an error: the
// caller delivers nothing and relies on the client's next fetch to reconcile.
func (r *Registry) Lookup(identity string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.conns[identity]
	return h, ok
}

// Snapshot returns the current entries for best-effort broadcast fan-out.
// The snapshot may miss or include a connection that changes during iteration;
// that is acceptable only because broadcast delivery is reconciled by the
// client's next fetch.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.conns))
	for identity, h := range r.conns {
		entries = append(entries, Entry{Identity: identity, Handle: h})
	}
	return entries
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
