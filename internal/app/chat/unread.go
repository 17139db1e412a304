package chat

import "sync"

// unreadKey identifies one directed counter: messages owner has not read from
// counterpart.
type unreadKey struct {
	owner       string
	counterpart string
}

// UnreadLedger owns the per-conversation unread counters. It is ephemeral and
// rebuildable from the message store; only atomic per-key operations are
// exposed, plus an owner-scoped snapshot for the unread_snapshot event.
type UnreadLedger struct {
	mu     sync.Mutex
	counts map[unreadKey]int
}

// NewUnreadLedger returns an empty ledger.
func NewUnreadLedger() *UnreadLedger {
	return &UnreadLedger{
		counts: make(map[unreadKey]int),
	}
}

// Bump increments the counter for (owner, counterpart) and returns the new value.
func (l *UnreadLedger) Bump(owner, counterpart string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := unreadKey{owner: owner, counterpart: counterpart}
	l.counts[key]++
	return l.counts[key]
}

// Reset zeroes the counter for (owner, counterpart). The zero entry is removed
// so a counter can never go negative or linger at zero.
func (l *UnreadLedger) Reset(owner, counterpart string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.counts, unreadKey{owner: owner, counterpart: counterpart})
}

// Get returns the current counter for (owner, counterpart).
func (l *UnreadLedger) Get(owner, counterpart string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.counts[unreadKey{owner: owner, counterpart: counterpart}]
}

// Snapshot returns every non-zero counter belonging to owner, keyed by counterpart.
func (l *UnreadLedger) Snapshot(owner string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int)
	for key, n := range l.counts {
		if key.owner == owner {
			out[key.counterpart] = n
		}
	}
	return out
}
