package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncwire/internal/app/store"
)

func TestSendChannelMulticastsToRoster(t *testing.T) {
	h, st := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	carol := connect(t, h, "carol")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob", "carol"})
	require.Nil(t, cerr)

	record, cerr := h.SendChannel(context.Background(), "bob", ch.ID, textInput("hello all"))
	require.Nil(t, cerr)
	assert.Equal(t, ch.ID, record.ChannelID)
	assert.Empty(t, record.Recipient)

	// Every roster identity, including the sender, receives exactly one copy.
	for _, fh := range []*fakeHandle{alice, bob, carol} {
		require.Equal(t, 1, fh.countOf(EventReceiveChannelMessage))

		var got store.Message
		decodePayload(t, fh.ofType(EventReceiveChannelMessage)[0], &got)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, "bob", got.Sender)
	}

	// The message is linked into the channel history.
	history, err := st.ListChannelMessages(context.Background(), ch.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestSendChannelAdminInMembersGetsOneCopy(t *testing.T) {
	h, _ := newTestHub(t)
	alice := connect(t, h, "alice")

	// The admin also appears in the initial member list; the roster
	// deduplicates, so delivery happens once.
	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"alice", "bob"})
	require.Nil(t, cerr)

	_, cerr = h.SendChannel(context.Background(), "bob", ch.ID, textInput("hi"))
	require.Nil(t, cerr)

	assert.Equal(t, 1, alice.countOf(EventReceiveChannelMessage))
}

func TestSendChannelNonMemberDenied(t *testing.T) {
	h, _ := newTestHub(t)
	bob := connect(t, h, "bob")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	_, cerr = h.SendChannel(context.Background(), "mallory", ch.ID, textInput("let me in"))
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)
	assert.Equal(t, 0, bob.countOf(EventReceiveChannelMessage))
}

func TestSendChannelUnknownChannel(t *testing.T) {
	h, _ := newTestHub(t)

	_, cerr := h.SendChannel(context.Background(), "alice", "missing", textInput("hi"))
	require.NotNil(t, cerr)
	assert.Equal(t, 404, cerr.Status)
}

func TestSendChannelClearsChannelTypingState(t *testing.T) {
	h, _ := newTestHub(t)
	connect(t, h, "alice")
	bob := connect(t, h, "bob")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	require.Nil(t, h.ChannelTypingStart(context.Background(), "alice", ch.ID))
	require.Equal(t, 1, bob.countOf(EventTyping))

	_, cerr = h.SendChannel(context.Background(), "alice", ch.ID, textInput("done typing"))
	require.Nil(t, cerr)

	// The send produced the stop notification; the timer no longer fires.
	states := typingStates(t, bob)
	assert.Equal(t, []bool{true, false}, states)
}
