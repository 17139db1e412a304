package chat

import (
	"context"
	"time"

	"syncwire/internal/app/store"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/randx"
)

// ContentInput is the client-supplied part of a message: exactly the content
// variant, never id, status, or timestamp, which only the store assigns.
type ContentInput struct {
	Type     store.MessageType `json:"messageType"`
	Content  string            `json:"content,omitempty"`
	FileURL  string            `json:"fileUrl,omitempty"`
	AudioURL string            `json:"audioUrl,omitempty"`
}

func (in ContentInput) validate() *errs.CustomError {
	switch in.Type {
	case store.TypeText:
		if in.Content == "" {
			return errs.NewError(errs.ErrEmptyContent)
		}
		if len(in.Content) > MaxContentBytes {
			return errs.NewError(errs.ErrMessageContentTooLong)
		}
	case store.TypeFile:
		if in.FileURL == "" {
			return errs.NewError(errs.ErrInvalidParams)
		}
	case store.TypeAudio:
		if in.AudioURL == "" {
			return errs.NewError(errs.ErrInvalidParams)
		}
	default:
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// SendDirect persists a one-to-one message and fans it out: the canonical
// stored record goes to the recipient's live connection and, as an echo, to
// the sender's own connection. A persistence failure aborts before any push.
// After the pushes, the sender's typing state toward the recipient is cleared
// and the recipient's unread counter is advanced unless the recipient is
// actively viewing the conversation.
func (h *Hub) SendDirect(ctx context.Context, sender, recipient string, in ContentInput) (store.Message, *errs.CustomError) {
	if !randx.ValidIdentity(sender) || !randx.ValidIdentity(recipient) {
		return store.Message{}, errs.NewError(errs.ErrInvalidIdentity)
	}
	if sender == recipient {
		return store.Message{}, errs.NewError(errs.ErrSelfMessage)
	}
	if err := in.validate(); err != nil {
		return store.Message{}, err
	}

	record, err := h.store.CreateMessage(ctx, store.Message{
		Sender:    sender,
		Recipient: recipient,
		Type:      in.Type,
		Content:   in.Content,
		FileURL:   in.FileURL,
		AudioURL:  in.AudioURL,
	})
	if err != nil {
		h.logger.Error().Err(err).
			Str("sender", sender).
			Str("recipient", recipient).
			Msg("Failed to persist direct message.")
		return store.Message{}, errs.NewError(errs.ErrStorePersistence)
	}

	ev := Event{Type: EventReceiveMessage, Payload: record}
	h.pushTo(recipient, ev)
	h.pushTo(sender, ev)

	h.typing.stopOnDirectSend(sender, recipient)

	if h.viewing.get(recipient) != sender {
		count := h.unread.Bump(recipient, sender)
		h.pushTo(recipient, Event{
			Type:    EventUnreadCount,
			Payload: UnreadCountPayload{Counterpart: sender, Count: count},
		})
	}

	return record, nil
}

// DeleteChat removes the direct history between deletedBy and peer in both
// directions, resets both unread counters, and notifies both parties' live
// connections.
func (h *Hub) DeleteChat(ctx context.Context, deletedBy, peer string) *errs.CustomError {
	if !randx.ValidIdentity(deletedBy) || !randx.ValidIdentity(peer) {
		return errs.NewError(errs.ErrInvalidIdentity)
	}

	deleted, err := h.store.DeleteDirectMessages(ctx, deletedBy, peer)
	if err != nil {
		h.logger.Error().Err(err).
			Str("deleted_by", deletedBy).
			Str("peer", peer).
			Msg("Failed to delete direct history.")
		return errs.NewError(errs.ErrStorePersistence)
	}

	h.unread.Reset(deletedBy, peer)
	h.unread.Reset(peer, deletedBy)

	ev := Event{
		Type: EventChatDeleted,
		Payload: ChatDeletedPayload{
			DeletedBy: deletedBy,
			Peer:      peer,
			Timestamp: time.Now().UTC(),
		},
	}
	h.pushTo(deletedBy, ev)
	h.pushTo(peer, ev)

	h.logger.Info().
		Str("deleted_by", deletedBy).
		Str("peer", peer).
		Int64("deleted_messages", deleted).
		Msg("Direct history deleted.")
	return nil
}
