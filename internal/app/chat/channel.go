package chat

import (
	"context"

	"syncwire/internal/app/store"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/randx"
)

// SendChannel persists a group message, links it to the channel, and
// multicasts the canonical record to the channel roster. The recipient set is
// members union admin, deduplicated, so an identity that is both admin and
// member receives exactly one copy; the sender is included and receives its
// own echo. A persistence failure aborts before any push.
func (h *Hub) SendChannel(ctx context.Context, sender, channelID string, in ContentInput) (store.Message, *errs.CustomError) {
	if !randx.ValidIdentity(sender) {
		return store.Message{}, errs.NewError(errs.ErrInvalidIdentity)
	}
	if err := in.validate(); err != nil {
		return store.Message{}, err
	}

	ch, cerr := h.getChannel(ctx, channelID)
	if cerr != nil {
		return store.Message{}, cerr
	}
	if !isMember(ch, sender) {
		return store.Message{}, errs.NewError(errs.ErrNotChannelMember)
	}

	record, err := h.store.CreateMessage(ctx, store.Message{
		Sender:    sender,
		ChannelID: channelID,
		Type:      in.Type,
		Content:   in.Content,
		FileURL:   in.FileURL,
		AudioURL:  in.AudioURL,
	})
	if err != nil {
		h.logger.Error().Err(err).
			Str("sender", sender).
			Str("channel_id", channelID).
			Msg("Failed to persist channel message.")
		return store.Message{}, errs.NewError(errs.ErrStorePersistence)
	}

	if err := h.store.AttachToChannel(ctx, channelID, record.ID); err != nil {
		h.logger.Error().Err(err).
			Str("channel_id", channelID).
			Str("message_id", record.ID).
			Msg("Failed to attach message to channel.")
		return store.Message{}, errs.NewError(errs.ErrStorePersistence)
	}

	recipients := roster(ch)
	h.pushMany(recipients, Event{Type: EventReceiveChannelMessage, Payload: record})

	h.typing.stopOnChannelSend(sender, channelID, rosterWithout(ch, sender))

	return record, nil
}
