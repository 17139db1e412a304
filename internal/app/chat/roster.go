package chat

import (
	"context"
	"errors"

	"syncwire/internal/app/store"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/randx"
)

// roster returns the channel's delivery set: members union admin, deduplicated.
// The admin is implicitly a member for broadcast purposes even when not
// literally present in the members list.
func roster(ch store.Channel) []string {
	out := make([]string, 0, len(ch.Members)+1)
	seen := make(map[string]struct{}, len(ch.Members)+1)
	for _, m := range ch.Members {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	if _, ok := seen[ch.Admin]; !ok {
		out = append(out, ch.Admin)
	}
	return out
}

// rosterWithout returns the delivery set minus one identity.
func rosterWithout(ch store.Channel, exclude string) []string {
	full := roster(ch)
	out := full[:0]
	for _, id := range full {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

func isMember(ch store.Channel, identity string) bool {
	if identity == ch.Admin {
		return true
	}
	for _, m := range ch.Members {
		if m == identity {
			return true
		}
	}
	return false
}

// getChannel fetches a channel and maps store absence to the coded not-found error.
func (h *Hub) getChannel(ctx context.Context, channelID string) (store.Channel, *errs.CustomError) {
	ch, err := h.store.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Channel{}, errs.NewError(errs.ErrChannelNotFound)
		}
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to load channel.")
		return store.Channel{}, errs.NewError(errs.ErrStorePersistence)
	}
	return ch, nil
}

// CreateChannel creates a channel with admin fixed for its lifetime. The
// member set is initialMembers union admin, deduplicated. Every live member is
// notified of the new channel.
func (h *Hub) CreateChannel(ctx context.Context, admin, name string, initialMembers []string) (store.Channel, *errs.CustomError) {
	if !randx.ValidIdentity(admin) {
		return store.Channel{}, errs.NewError(errs.ErrInvalidIdentity)
	}
	if name == "" {
		return store.Channel{}, errs.NewError(errs.ErrInvalidChannelName)
	}
	for _, m := range initialMembers {
		if !randx.ValidIdentity(m) {
			return store.Channel{}, errs.NewError(errs.ErrInvalidIdentity)
		}
	}

	members := dedup(append(append([]string(nil), initialMembers...), admin))

	ch, err := h.store.CreateChannel(ctx, store.Channel{
		Name:    name,
		Admin:   admin,
		Members: members,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("admin", admin).Msg("Failed to create channel.")
		return store.Channel{}, errs.NewError(errs.ErrStorePersistence)
	}

	h.pushMany(roster(ch), Event{Type: EventChannelAdded, Payload: ch})

	h.logger.Info().
		Str("channel_id", ch.ID).
		Str("admin", admin).
		Int("members", len(ch.Members)).
		Msg("Channel created.")
	return ch, nil
}

// AddMembers appends candidates to the channel roster. Any current member may
// add; candidates already in the roster are filtered out first, and filtering
// everything away is reported to the requester with no broadcast. On success
// the delta goes to all currently connected members, old and new.
func (h *Hub) AddMembers(ctx context.Context, channelID, requester string, candidates []string) ([]string, *errs.CustomError) {
	ch, cerr := h.getChannel(ctx, channelID)
	if cerr != nil {
		return nil, cerr
	}
	if !isMember(ch, requester) {
		return nil, errs.NewError(errs.ErrNotChannelMember)
	}
	for _, c := range candidates {
		if !randx.ValidIdentity(c) {
			return nil, errs.NewError(errs.ErrInvalidIdentity)
		}
	}

	existing := make(map[string]struct{}, len(ch.Members)+1)
	for _, m := range ch.Members {
		existing[m] = struct{}{}
	}
	existing[ch.Admin] = struct{}{}

	var added []string
	for _, c := range dedup(candidates) {
		if _, dup := existing[c]; !dup {
			added = append(added, c)
		}
	}
	if len(added) == 0 {
		return nil, errs.NewError(errs.ErrNoNewMembers)
	}

	members := append(append([]string(nil), ch.Members...), added...)
	if err := h.store.UpdateChannelMembers(ctx, channelID, members); err != nil {
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to save new members.")
		return nil, errs.NewError(errs.ErrStorePersistence)
	}
	ch.Members = members

	h.pushMany(roster(ch), Event{
		Type: EventChannelMembers,
		Payload: ChannelMembersPayload{
			ChannelID: channelID,
			Joined:    added,
			Members:   roster(ch),
		},
	})

	h.logger.Info().
		Str("channel_id", channelID).
		Str("requester", requester).
		Int("added", len(added)).
		Msg("Members added to channel.")
	return added, nil
}

// LeaveChannel removes the requester from the roster. The admin must disband
// instead of leaving, and an identity that is not a member (including one that
// already left) is denied rather than crashing. Remaining connected members
// get a member-left delta.
func (h *Hub) LeaveChannel(ctx context.Context, channelID, requester string) *errs.CustomError {
	ch, cerr := h.getChannel(ctx, channelID)
	if cerr != nil {
		return cerr
	}
	if requester == ch.Admin {
		return errs.NewError(errs.ErrAdminCannotLeave)
	}
	if !isMember(ch, requester) {
		return errs.NewError(errs.ErrNotChannelMember)
	}

	members := make([]string, 0, len(ch.Members))
	for _, m := range ch.Members {
		if m != requester {
			members = append(members, m)
		}
	}
	if err := h.store.UpdateChannelMembers(ctx, channelID, members); err != nil {
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to save roster after leave.")
		return errs.NewError(errs.ErrStorePersistence)
	}
	ch.Members = members

	h.pushMany(roster(ch), Event{
		Type: EventChannelMembers,
		Payload: ChannelMembersPayload{
			ChannelID: channelID,
			Left:      requester,
			Members:   roster(ch),
		},
	})

	h.logger.Info().
		Str("channel_id", channelID).
		Str("requester", requester).
		Msg("Member left channel.")
	return nil
}

// DisbandChannel deletes the channel's messages, then the channel itself, and
// broadcasts the disband over a registry snapshot to every connected roster
// identity. The payload is identical for every receiver except the flag that
// marks the admin's own event instance.
func (h *Hub) DisbandChannel(ctx context.Context, channelID, requester string) *errs.CustomError {
	ch, cerr := h.getChannel(ctx, channelID)
	if cerr != nil {
		return cerr
	}
	if requester != ch.Admin {
		return errs.NewError(errs.ErrNotChannelAdmin)
	}

	deleted, err := h.store.DeleteChannelMessages(ctx, channelID)
	if err != nil {
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to delete channel messages.")
		return errs.NewError(errs.ErrStorePersistence)
	}
	if err := h.store.DeleteChannel(ctx, channelID); err != nil {
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to delete channel.")
		return errs.NewError(errs.ErrStorePersistence)
	}

	recipients := make(map[string]struct{})
	for _, id := range roster(ch) {
		recipients[id] = struct{}{}
	}

	// Best-effort fan-out over a snapshot: an entry that changes during
	// iteration is reconciled by that client's next fetch.
	for _, entry := range h.registry.Snapshot() {
		if _, ok := recipients[entry.Identity]; !ok {
			continue
		}
		h.pushHandle(entry.Identity, entry.Handle, Event{
			Type: EventChannelDisbanded,
			Payload: ChannelDisbandedPayload{
				ChannelID:        channelID,
				Name:             ch.Name,
				DisbandedBy:      requester,
				IsRequesterAdmin: entry.Identity == requester,
			},
		})
	}

	h.logger.Info().
		Str("channel_id", channelID).
		Str("requester", requester).
		Int64("deleted_messages", deleted).
		Msg("Channel disbanded.")
	return nil
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
