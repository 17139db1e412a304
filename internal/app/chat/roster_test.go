package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncwire/internal/app/store"
)

func TestCreateChannelDeduplicatesMembers(t *testing.T) {
	h, _ := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob", "bob", "alice"})
	require.Nil(t, cerr)

	assert.Equal(t, "alice", ch.Admin)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ch.Members)
	assert.NotEmpty(t, ch.ID)

	// Each connected member is notified exactly once.
	assert.Equal(t, 1, alice.countOf(EventChannelAdded))
	assert.Equal(t, 1, bob.countOf(EventChannelAdded))

	var got store.Channel
	decodePayload(t, bob.ofType(EventChannelAdded)[0], &got)
	assert.Equal(t, ch.ID, got.ID)
	assert.Equal(t, "general", got.Name)
}

func TestCreateChannelValidation(t *testing.T) {
	h, _ := newTestHub(t)

	_, cerr := h.CreateChannel(context.Background(), "alice", "", nil)
	require.NotNil(t, cerr)
	assert.Equal(t, 400, cerr.Status)

	_, cerr = h.CreateChannel(context.Background(), "", "general", nil)
	require.NotNil(t, cerr)

	_, cerr = h.CreateChannel(context.Background(), "alice", "general", []string{"not valid!"})
	require.NotNil(t, cerr)
}

func TestAddMembersBroadcastsDelta(t *testing.T) {
	h, st := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	carol := connect(t, h, "carol")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	// Any member may add, not only the admin.
	added, cerr := h.AddMembers(context.Background(), ch.ID, "bob", []string{"carol", "alice"})
	require.Nil(t, cerr)
	assert.Equal(t, []string{"carol"}, added)

	updated, err := st.GetChannel(context.Background(), ch.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, updated.Members)

	// Old and new members get the same delta.
	for _, fh := range []*fakeHandle{alice, bob, carol} {
		require.Equal(t, 1, fh.countOf(EventChannelMembers))

		var p ChannelMembersPayload
		decodePayload(t, fh.ofType(EventChannelMembers)[0], &p)
		assert.Equal(t, ch.ID, p.ChannelID)
		assert.Equal(t, []string{"carol"}, p.Joined)
		assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, p.Members)
	}
}

func TestAddMembersAllDuplicatesIsNoOp(t *testing.T) {
	h, _ := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	// Every candidate is already in the roster (the admin counts).
	_, cerr = h.AddMembers(context.Background(), ch.ID, "bob", []string{"bob", "alice"})
	require.NotNil(t, cerr)
	assert.Equal(t, 400, cerr.Status)

	// The no-op produced no broadcast.
	assert.Equal(t, 0, alice.countOf(EventChannelMembers))
	assert.Equal(t, 0, bob.countOf(EventChannelMembers))
}

func TestAddMembersByNonMemberDenied(t *testing.T) {
	h, _ := newTestHub(t)

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	_, cerr = h.AddMembers(context.Background(), ch.ID, "mallory", []string{"eve"})
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)
}

func TestLeaveChannelRemovesMember(t *testing.T) {
	h, st := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	carol := connect(t, h, "carol")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob", "carol"})
	require.Nil(t, cerr)

	require.Nil(t, h.LeaveChannel(context.Background(), ch.ID, "bob"))

	updated, err := st.GetChannel(context.Background(), ch.ID)
	require.NoError(t, err)
	assert.NotContains(t, updated.Members, "bob")

	// Remaining members are told who left.
	for _, fh := range []*fakeHandle{alice, carol} {
		require.Equal(t, 1, fh.countOf(EventChannelMembers))

		var p ChannelMembersPayload
		decodePayload(t, fh.ofType(EventChannelMembers)[0], &p)
		assert.Equal(t, "bob", p.Left)
		assert.NotContains(t, p.Members, "bob")
	}
	assert.Equal(t, 0, bob.countOf(EventChannelMembers))
}

func TestAdminCannotLeave(t *testing.T) {
	h, _ := newTestHub(t)

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	cerr = h.LeaveChannel(context.Background(), ch.ID, "alice")
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)
}

func TestLeaveTwiceIsDenied(t *testing.T) {
	h, _ := newTestHub(t)

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	require.Nil(t, h.LeaveChannel(context.Background(), ch.ID, "bob"))

	// The repeated leave is denied like any other non-member request, it
	// never crashes the roster logic.
	cerr = h.LeaveChannel(context.Background(), ch.ID, "bob")
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)
}

func TestDisbandChannelByNonAdminDenied(t *testing.T) {
	h, st := newTestHub(t)

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	cerr = h.DisbandChannel(context.Background(), ch.ID, "bob")
	require.NotNil(t, cerr)
	assert.Equal(t, 403, cerr.Status)

	_, err := st.GetChannel(context.Background(), ch.ID)
	assert.NoError(t, err)
}

func TestDisbandChannelCascadesAndFlagsAdmin(t *testing.T) {
	h, st := newTestHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	mallory := connect(t, h, "mallory")

	ch, cerr := h.CreateChannel(context.Background(), "alice", "general", []string{"bob"})
	require.Nil(t, cerr)

	_, cerr = h.SendChannel(context.Background(), "bob", ch.ID, textInput("soon gone"))
	require.Nil(t, cerr)

	require.Nil(t, h.DisbandChannel(context.Background(), ch.ID, "alice"))

	// Channel and its history are gone.
	_, err := st.GetChannel(context.Background(), ch.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Both roster identities are notified; the flag differs per receiver.
	require.Equal(t, 1, alice.countOf(EventChannelDisbanded))
	require.Equal(t, 1, bob.countOf(EventChannelDisbanded))

	var adminView ChannelDisbandedPayload
	decodePayload(t, alice.ofType(EventChannelDisbanded)[0], &adminView)
	assert.True(t, adminView.IsRequesterAdmin)
	assert.Equal(t, "alice", adminView.DisbandedBy)
	assert.Equal(t, "general", adminView.Name)

	var memberView ChannelDisbandedPayload
	decodePayload(t, bob.ofType(EventChannelDisbanded)[0], &memberView)
	assert.False(t, memberView.IsRequesterAdmin)
	assert.Equal(t, "alice", memberView.DisbandedBy)

	// Connected identities outside the roster hear nothing.
	assert.Equal(t, 0, mallory.countOf(EventChannelDisbanded))
}

func TestDisbandUnknownChannel(t *testing.T) {
	h, _ := newTestHub(t)

	cerr := h.DisbandChannel(context.Background(), "missing", "alice")
	require.NotNil(t, cerr)
	assert.Equal(t, 404, cerr.Status)
}
