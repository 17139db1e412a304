package chat

import (
	"context"
	"errors"
	"sync"

	"syncwire/internal/app/store"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/randx"
)

// viewingSet tracks which direct conversation each identity currently has
// open. At most one conversation per identity, matching the single live
// connection per identity.
type viewingSet struct {
	mu   sync.Mutex
	open map[string]string
}

func newViewingSet() *viewingSet {
	return &viewingSet{open: make(map[string]string)}
}

func (v *viewingSet) set(owner, counterpart string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open[owner] = counterpart
}

func (v *viewingSet) unset(owner, counterpart string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open[owner] == counterpart {
		delete(v.open, owner)
	}
}

func (v *viewingSet) clear(owner string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.open, owner)
}

func (v *viewingSet) get(owner string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open[owner]
}

// MarkRead advances one message to read status on behalf of its recipient.
// Marking an already-read message is a silent no-op, so racing tabs produce
// exactly one status broadcast. The record pushed out is the one returned by
// the store after the write, never a pre-write snapshot.
func (h *Hub) MarkRead(ctx context.Context, messageID, reader string) *errs.CustomError {
	msg, err := h.store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrMessageNotFound)
		}
		h.logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to load message.")
		return errs.NewError(errs.ErrStorePersistence)
	}

	if msg.Recipient != reader {
		return errs.NewError(errs.ErrNotMessageRecipient)
	}
	if msg.Status == store.StatusRead {
		return nil
	}

	record, err := h.store.UpdateMessageStatus(ctx, messageID, store.StatusRead)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrMessageNotFound)
		}
		h.logger.Error().Err(err).Str("message_id", messageID).Msg("Failed to update message status.")
		return errs.NewError(errs.ErrStorePersistence)
	}

	h.broadcastStatus(record)

	h.unread.Reset(reader, record.Sender)
	h.pushTo(reader, Event{
		Type:    EventUnreadCount,
		Payload: UnreadCountPayload{Counterpart: record.Sender, Count: 0},
	})
	return nil
}

// JoinConversation records that reader has the conversation with counterpart
// open and performs the bulk read transition: every message from counterpart
// still in sent status flips to read, with the same per-message fan-out as
// MarkRead. An empty batch produces no message fan-out at all. The unread
// counter resets on open either way.
func (h *Hub) JoinConversation(ctx context.Context, reader, counterpart string) *errs.CustomError {
	if !randx.ValidIdentity(reader) || !randx.ValidIdentity(counterpart) {
		return errs.NewError(errs.ErrInvalidIdentity)
	}

	h.viewing.set(reader, counterpart)

	pending, err := h.store.FindUnread(ctx, counterpart, reader)
	if err != nil {
		h.logger.Error().Err(err).
			Str("reader", reader).
			Str("counterpart", counterpart).
			Msg("Failed to find unread messages.")
		return errs.NewError(errs.ErrStorePersistence)
	}

	for _, msg := range pending {
		record, err := h.store.UpdateMessageStatus(ctx, msg.ID, store.StatusRead)
		if err != nil {
			// A message deleted mid-batch is skipped; the rest of the batch
			// still transitions.
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			h.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to update message status in batch.")
			return errs.NewError(errs.ErrStorePersistence)
		}
		h.broadcastStatus(record)
	}

	h.unread.Reset(reader, counterpart)
	h.pushTo(reader, Event{
		Type:    EventUnreadCount,
		Payload: UnreadCountPayload{Counterpart: counterpart, Count: 0},
	})
	return nil
}

// LeaveConversation records that reader no longer has the conversation with
// counterpart open, so later inbound messages bump the unread counter again.
func (h *Hub) LeaveConversation(reader, counterpart string) {
	h.viewing.unset(reader, counterpart)
}

// broadcastStatus pushes the canonical updated record to the live connections
// of both parties. With one handle per identity, the reader's own push is what
// keeps any other client state of the reader consistent.
func (h *Hub) broadcastStatus(record store.Message) {
	ev := Event{Type: EventMessageStatus, Payload: record}
	h.pushTo(record.Sender, ev)
	h.pushTo(record.Recipient, ev)
}
