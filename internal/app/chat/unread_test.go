package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnreadLedgerBumpAndReset(t *testing.T) {
	l := NewUnreadLedger()

	assert.Equal(t, 1, l.Bump("bob", "alice"))
	assert.Equal(t, 2, l.Bump("bob", "alice"))
	assert.Equal(t, 1, l.Bump("bob", "carol"))

	// Direction matters: alice's view of bob is a different counter.
	assert.Equal(t, 0, l.Get("alice", "bob"))

	l.Reset("bob", "alice")
	assert.Equal(t, 0, l.Get("bob", "alice"))
	assert.Equal(t, 1, l.Get("bob", "carol"))
}

func TestUnreadLedgerResetMissingCounter(t *testing.T) {
	l := NewUnreadLedger()
	l.Reset("bob", "alice")
	assert.Equal(t, 0, l.Get("bob", "alice"))
}

func TestUnreadLedgerSnapshotOmitsOtherOwners(t *testing.T) {
	l := NewUnreadLedger()

	l.Bump("bob", "alice")
	l.Bump("bob", "alice")
	l.Bump("bob", "carol")
	l.Bump("dave", "alice")

	snap := l.Snapshot("bob")
	assert.Equal(t, map[string]int{"alice": 2, "carol": 1}, snap)

	assert.Empty(t, l.Snapshot("nobody"))
}

func TestUnreadLedgerConcurrentBumps(t *testing.T) {
	l := NewUnreadLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Bump("bob", "alice")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, l.Get("bob", "alice"))
}
