package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncwire/internal/app/store"
)

func typingStates(t *testing.T, fh *fakeHandle) []bool {
	t.Helper()

	var out []bool
	for _, ev := range fh.ofType(EventTyping) {
		var p TypingPayload
		decodePayload(t, ev, &p)
		out = append(out, p.Typing)
	}
	return out
}

func TestTypingBurstCollapsesToOneStartOneStop(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	// A burst of keystroke signals inside the debounce window.
	for i := 0; i < 5; i++ {
		h.TypingStart("alice", "bob")
		time.Sleep(5 * time.Millisecond)
	}

	// Only the first signal notified bob.
	assert.Equal(t, []bool{true}, typingStates(t, bob))

	// The single debounce timer fires once after the burst goes quiet.
	require.Eventually(t, func() bool {
		return bob.countOf(EventTyping) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []bool{true, false}, typingStates(t, bob))

	// Nothing more arrives afterwards.
	time.Sleep(2 * h.typingTimeout)
	assert.Equal(t, 2, bob.countOf(EventTyping))
}

func TestTypingExplicitStopBeatsTimer(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	h.TypingStart("alice", "bob")
	h.TypingStop("alice", "bob")

	assert.Equal(t, []bool{true, false}, typingStates(t, bob))

	// The cancelled timer never produces a second stop.
	time.Sleep(2 * h.typingTimeout)
	assert.Equal(t, 2, bob.countOf(EventTyping))
}

func TestTypingStopWithoutStartStillNotifies(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	h.TypingStop("alice", "bob")
	assert.Equal(t, []bool{false}, typingStates(t, bob))
}

func TestSendDirectClearsTypingState(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	h.TypingStart("alice", "bob")

	_, err := h.SendDirect(context.Background(), "alice", "bob", ContentInput{
		Type:    store.TypeText,
		Content: "hi",
	})
	require.Nil(t, err)

	// Send pushed the stop immediately.
	assert.Equal(t, []bool{true, false}, typingStates(t, bob))

	// The debounce timer was cancelled, so no third notification follows.
	time.Sleep(2 * h.typingTimeout)
	assert.Equal(t, 2, bob.countOf(EventTyping))
}

func TestChannelTypingExcludesSender(t *testing.T) {
	h, _ := newTestHub(t)

	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	carol := connect(t, h, "carol")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob", "carol"})
	require.Nil(t, cerr)

	require.Nil(t, h.ChannelTypingStart(context.Background(), "bob", ch.ID))

	assert.Equal(t, []bool{true}, typingStates(t, alice))
	assert.Equal(t, []bool{true}, typingStates(t, carol))
	assert.Empty(t, typingStates(t, bob))

	var p TypingPayload
	decodePayload(t, alice.ofType(EventTyping)[0], &p)
	assert.Equal(t, "bob", p.Sender)
	assert.Equal(t, ch.ID, p.ChannelID)

	require.Eventually(t, func() bool {
		return alice.countOf(EventTyping) == 2 && carol.countOf(EventTyping) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, typingStates(t, bob))
}

func TestChannelTypingUnknownChannel(t *testing.T) {
	h, _ := newTestHub(t)

	cerr := h.ChannelTypingStart(context.Background(), "bob", "missing")
	require.NotNil(t, cerr)
	assert.Equal(t, 404, cerr.Status)
}

func TestDirectAndChannelTypingAreIndependent(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	h.TypingStart("alice", "bob")
	require.Nil(t, h.ChannelTypingStart(context.Background(), "alice", ch.ID))

	// bob hears two independent starts: one direct, one channel.
	states := typingStates(t, bob)
	assert.Equal(t, []bool{true, true}, states)

	// Stopping the direct burst leaves the channel burst armed.
	h.TypingStop("alice", "bob")

	require.Eventually(t, func() bool {
		return bob.countOf(EventTyping) == 4
	}, time.Second, 5*time.Millisecond)
}
