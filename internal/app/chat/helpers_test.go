package chat

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"syncwire/internal/app/store"
)

// capturedEvent is one decoded frame pushed to a fakeHandle.
type capturedEvent struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// fakeHandle is an in-memory presence.Handle that records everything pushed
// to it.
type fakeHandle struct {
	mu      sync.Mutex
	events  []capturedEvent
	kicks   []string
	rejects bool
}

func (f *fakeHandle) Enqueue(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejects {
		return false
	}

	var ev capturedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		panic(err)
	}
	f.events = append(f.events, ev)
	return true
}

func (f *fakeHandle) Kick(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicks = append(f.kicks, reason)
}

func (f *fakeHandle) all() []capturedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedEvent(nil), f.events...)
}

func (f *fakeHandle) ofType(et EventType) []capturedEvent {
	var out []capturedEvent
	for _, ev := range f.all() {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeHandle) countOf(et EventType) int {
	return len(f.ofType(et))
}

func (f *fakeHandle) kicked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.kicks)
}

func decodePayload(t *testing.T, ev capturedEvent, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(ev.Payload, dst))
}

// newTestHub builds a Hub on the in-memory store with a short typing debounce
// so tests observe timer expiry quickly.
func newTestHub(t *testing.T) (*Hub, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	h := NewHub(st)
	h.typingTimeout = 60 * time.Millisecond
	t.Cleanup(h.Shutdown)
	return h, st
}

// connect registers a fresh fakeHandle for identity and returns it.
func connect(t *testing.T, h *Hub, identity string) *fakeHandle {
	t.Helper()

	fh := &fakeHandle{}
	h.Connect(identity, fh)
	return fh
}
