package chat

import (
	"context"

	"syncwire/internal/app/store"
	"syncwire/internal/pkg/errs"
)

// DirectHistory returns the full direct conversation between requester and
// peer in timestamp order. Clients call this to reconcile after a reconnect.
func (h *Hub) DirectHistory(ctx context.Context, requester, peer string) ([]store.Message, *errs.CustomError) {
	messages, err := h.store.ListDirectMessages(ctx, requester, peer)
	if err != nil {
		h.logger.Error().Err(err).Str("peer", peer).Msg("Direct history fetch failed")
		return nil, errs.NewError(errs.ErrStorePersistence)
	}
	if messages == nil {
		messages = []store.Message{}
	}
	return messages, nil
}

// ChannelHistory returns a channel's messages in timestamp order. Only current
// members (including the admin) may read the history.
func (h *Hub) ChannelHistory(ctx context.Context, channelID, requester string) ([]store.Message, *errs.CustomError) {
	ch, customErr := h.getChannel(ctx, channelID)
	if customErr != nil {
		return nil, customErr
	}

	if !isMember(ch, requester) {
		return nil, errs.NewError(errs.ErrNotChannelMember)
	}

	messages, err := h.store.ListChannelMessages(ctx, channelID)
	if err != nil {
		h.logger.Error().Err(err).Str("channel_id", channelID).Msg("Channel history fetch failed")
		return nil, errs.NewError(errs.ErrStorePersistence)
	}
	if messages == nil {
		messages = []store.Message{}
	}
	return messages, nil
}
