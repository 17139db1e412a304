package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectKicksReplacedConnection(t *testing.T) {
	h, _ := newTestHub(t)

	first := connect(t, h, "alice")
	second := connect(t, h, "alice")

	// The old tab is kicked, the new one is not.
	assert.Equal(t, 1, first.kicked())
	assert.Equal(t, 0, second.kicked())

	// Events now route to the new connection only.
	_, cerr := h.SendDirect(context.Background(), "bob", "alice", textInput("hi"))
	require.Nil(t, cerr)

	assert.Equal(t, 0, first.countOf(EventReceiveMessage))
	assert.Equal(t, 1, second.countOf(EventReceiveMessage))
}

func TestStaleDisconnectKeepsNewConnection(t *testing.T) {
	h, _ := newTestHub(t)

	first := connect(t, h, "alice")
	second := connect(t, h, "alice")

	// The kicked connection's read loop shuts down late and reports its
	// disconnect after the replacement registered.
	h.Disconnect("alice", first)

	_, cerr := h.SendDirect(context.Background(), "bob", "alice", textInput("still here"))
	require.Nil(t, cerr)
	assert.Equal(t, 1, second.countOf(EventReceiveMessage))
}

func TestReconnectSameHandleNotKicked(t *testing.T) {
	h, _ := newTestHub(t)

	fh := connect(t, h, "alice")
	h.Connect("alice", fh)

	assert.Equal(t, 0, fh.kicked())
}

func TestPushSwallowsFullQueue(t *testing.T) {
	h, _ := newTestHub(t)

	bob := &fakeHandle{rejects: true}
	h.Connect("bob", bob)

	// Delivery failure never surfaces as an operation error.
	record, cerr := h.SendDirect(context.Background(), "alice", "bob", textInput("hi"))
	require.Nil(t, cerr)
	assert.NotEmpty(t, record.ID)
}

func TestUnreadSnapshotAggregatesConversations(t *testing.T) {
	h, _ := newTestHub(t)

	for i := 0; i < 2; i++ {
		_, cerr := h.SendDirect(context.Background(), "alice", "carol", textInput("a"))
		require.Nil(t, cerr)
	}
	_, cerr := h.SendDirect(context.Background(), "bob", "carol", textInput("b"))
	require.Nil(t, cerr)

	carol := connect(t, h, "carol")
	h.UnreadSnapshot("carol")

	require.Equal(t, 1, carol.countOf(EventUnreadSnapshot))
	var snap UnreadSnapshotPayload
	decodePayload(t, carol.ofType(EventUnreadSnapshot)[0], &snap)
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1}, snap.Counts)
}

func TestDirectHistoryOrdersByTimestamp(t *testing.T) {
	h, _ := newTestHub(t)

	for _, text := range []string{"one", "two", "three"} {
		_, cerr := h.SendDirect(context.Background(), "alice", "bob", textInput(text))
		require.Nil(t, cerr)
	}
	_, cerr := h.SendDirect(context.Background(), "bob", "alice", textInput("four"))
	require.Nil(t, cerr)

	history, cerr := h.DirectHistory(context.Background(), "bob", "alice")
	require.Nil(t, cerr)
	require.Len(t, history, 4)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestChannelHistoryMembersOnly(t *testing.T) {
	h, _ := newTestHub(t)

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	_, cerr = h.SendChannel(context.Background(), "bob", ch.ID, textInput("hi"))
	require.Nil(t, cerr)

	history, cerr := h.ChannelHistory(context.Background(), ch.ID, "alice")
	require.Nil(t, cerr)
	assert.Len(t, history, 1)

	_, cerr = h.ChannelHistory(context.Background(), ch.ID, "mallory")
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)
}
