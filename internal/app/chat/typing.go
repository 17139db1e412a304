package chat

import (
	"context"
	"fmt"

	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/sched"
)

// typingCoordinator drives the per-key IDLE -> TYPING -> IDLE state machine.
// A key is TYPING exactly while it has an armed timer in the ledger, so the
// ledger's supersession guarantee is the coordinator's race protection: a
// timer that fires concurrently with a stop or a re-arm observes it was
// cancelled and pushes nothing.
type typingCoordinator struct {
	hub    *Hub
	timers *sched.Timers
}

func newTypingCoordinator(h *Hub) *typingCoordinator {
	return &typingCoordinator{
		hub:    h,
		timers: sched.NewTimers(),
	}
}

func directTypingKey(sender, recipient string) string {
	return fmt.Sprintf("dm:%s:%s", sender, recipient)
}

func channelTypingKey(sender, channelID string) string {
	return fmt.Sprintf("ch:%s:%s", sender, channelID)
}

// TypingStart handles a typing signal from sender toward the direct
// counterpart peer. The first signal of a burst pushes "typing" to the peer;
// every signal re-arms the single debounce timer that will push "stopped
// typing" once the burst goes quiet.
func (h *Hub) TypingStart(sender, peer string) {
	key := directTypingKey(sender, peer)

	stop := func() {
		h.pushTo(peer, typingEvent(sender, peer, "", false))
	}

	wasTyping := h.typing.timers.Arm(key, h.typingTimeout, stop)
	if !wasTyping {
		h.pushTo(peer, typingEvent(sender, peer, "", true))
	}
}

// TypingStop handles an explicit stop from sender toward peer. The stop
// notification is pushed unconditionally so the call is idempotent from the
// peer's point of view.
func (h *Hub) TypingStop(sender, peer string) {
	h.typing.timers.Cancel(directTypingKey(sender, peer))
	h.pushTo(peer, typingEvent(sender, peer, "", false))
}

// ChannelTypingStart handles a typing signal from sender in a channel. The
// notification goes to every connected channel member except the sender.
func (h *Hub) ChannelTypingStart(ctx context.Context, sender, channelID string) *errs.CustomError {
	ch, err := h.getChannel(ctx, channelID)
	if err != nil {
		return err
	}

	audience := rosterWithout(ch, sender)
	key := channelTypingKey(sender, channelID)

	stop := func() {
		h.pushMany(audience, typingEvent(sender, "", channelID, false))
	}

	wasTyping := h.typing.timers.Arm(key, h.typingTimeout, stop)
	if !wasTyping {
		h.pushMany(audience, typingEvent(sender, "", channelID, true))
	}
	return nil
}

// ChannelTypingStop handles an explicit stop from sender in a channel.
func (h *Hub) ChannelTypingStop(ctx context.Context, sender, channelID string) *errs.CustomError {
	ch, err := h.getChannel(ctx, channelID)
	if err != nil {
		return err
	}

	h.typing.timers.Cancel(channelTypingKey(sender, channelID))
	h.pushMany(rosterWithout(ch, sender), typingEvent(sender, "", channelID, false))
	return nil
}

// stopOnDirectSend clears any typing state sender had directed at recipient,
// as a side effect of a successful send. The timer is cancelled before the
// stop is pushed, so it cannot double-fire afterwards.
func (t *typingCoordinator) stopOnDirectSend(sender, recipient string) {
	t.timers.Cancel(directTypingKey(sender, recipient))
	t.hub.pushTo(recipient, typingEvent(sender, recipient, "", false))
}

// stopOnChannelSend clears sender's typing state in the channel after a
// successful channel send and notifies the given audience.
func (t *typingCoordinator) stopOnChannelSend(sender, channelID string, audience []string) {
	t.timers.Cancel(channelTypingKey(sender, channelID))
	t.hub.pushMany(audience, typingEvent(sender, "", channelID, false))
}

func (t *typingCoordinator) stopAll() {
	t.timers.StopAll()
}

func typingEvent(sender, peer, channelID string, typing bool) Event {
	return Event{
		Type: EventTyping,
		Payload: TypingPayload{
			Sender:    sender,
			Peer:      peer,
			ChannelID: channelID,
			Typing:    typing,
		},
	}
}
