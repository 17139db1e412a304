/*
Package chat contains the presence and delivery-synchronization core.

This file defines the Hub, the single coordinator behind every inbound event.
It owns the connection registry, the typing timers, the unread ledger, and the
viewing map, and routes each operation through the store before fanning the
result out to live connections.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"syncwire/internal/app/presence"
	"syncwire/internal/app/store"
	"syncwire/internal/pkg/logx"
)

const (
	// TypingTimeout is the debounce window after the last typing signal before
	// a stopped-typing event is emitted on the sender's behalf.
	TypingTimeout = 2000 * time.Millisecond

	// MaxContentBytes is the maximum allowed size for text message content.
	MaxContentBytes = 5000
)

// Hub coordinates live delivery for the whole process. Handlers run to
// completion per inbound event; the only blocking points are store calls.
type Hub struct {
	store    store.Store
	registry *presence.Registry
	typing   *typingCoordinator
	unread   *UnreadLedger

	// viewing tracks which conversation, if any, each identity currently has
	// open. Inbound direct messages do not bump the unread counter while the
	// recipient is viewing the sender's conversation.
	viewing *viewingSet

	// typingTimeout is TypingTimeout in production; tests shorten it.
	typingTimeout time.Duration

	logger zerolog.Logger
}

// NewHub constructs a Hub on top of the given store.
func NewHub(st store.Store) *Hub {
	h := &Hub{
		store:         st,
		registry:      presence.NewRegistry(),
		unread:        NewUnreadLedger(),
		viewing:       newViewingSet(),
		typingTimeout: TypingTimeout,
		logger:        logx.Logger().With().Str("component", "Hub").Logger(),
	}
	h.typing = newTypingCoordinator(h)
	return h
}

// Registry exposes the connection registry to the transport layer.
func (h *Hub) Registry() *presence.Registry {
	return h.registry
}

// Connect registers handle as identity's live connection. A previous handle
// for the same identity is kicked (last-connect-wins).
func (h *Hub) Connect(identity string, handle presence.Handle) {
	prev, replaced := h.registry.Register(identity, handle)
	if replaced && prev != handle {
		h.logger.Warn().
			Str("identity", identity).
			Msg("Identity already connected. Kicking old connection for replacement.")
		prev.Kick("Session replaced by new connection. Check other tabs.")
	}

	h.logger.Info().
		Str("identity", identity).
		Int("total_connections", h.registry.Len()).
		Msg("Client connected.")
}

// Disconnect removes handle from the registry if it is still the live handle
// for identity. A stale disconnect arriving after a reconnect is a no-op and
// leaves the newer connection and its viewing state untouched.
func (h *Hub) Disconnect(identity string, handle presence.Handle) {
	if !h.registry.Unregister(identity, handle) {
		h.logger.Info().
			Str("identity", identity).
			Msg("Ignoring disconnect for stale connection.")
		return
	}

	h.viewing.clear(identity)

	h.logger.Info().
		Str("identity", identity).
		Int("total_connections", h.registry.Len()).
		Msg("Client disconnected.")
}

// UnreadSnapshot pushes every unread counter of identity to its live
// connection, if any.
func (h *Hub) UnreadSnapshot(identity string) {
	counts := h.unread.Snapshot(identity)
	h.pushTo(identity, Event{
		Type:    EventUnreadSnapshot,
		Payload: UnreadSnapshotPayload{Counts: counts},
	})
}

// Shutdown cancels all pending typing timers. Live connections are closed by
// the HTTP server shutdown.
func (h *Hub) Shutdown() {
	h.typing.stopAll()
	h.logger.Info().Msg("Hub shutdown complete.")
}

// pushTo marshals ev and offers it to identity's live connection. Absence of a
// connection and full send queues are both swallowed; the client's next fetch
// reconciles anything missed.
func (h *Hub) pushTo(identity string, ev Event) {
	handle, ok := h.registry.Lookup(identity)
	if !ok {
		return
	}
	h.pushHandle(identity, handle, ev)
}

// pushMany marshals ev once and offers it to each identity's live connection
// at most once.
func (h *Hub) pushMany(identities []string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(ev.Type)).Msg("Error marshaling event for fan-out.")
		return
	}

	seen := make(map[string]struct{}, len(identities))
	for _, identity := range identities {
		if _, dup := seen[identity]; dup {
			continue
		}
		seen[identity] = struct{}{}

		handle, ok := h.registry.Lookup(identity)
		if !ok {
			continue
		}
		if !handle.Enqueue(data) {
			h.logger.Warn().
				Str("identity", identity).
				Str("event_type", string(ev.Type)).
				Msg("Send queue full, dropping event.")
		}
	}
}

func (h *Hub) pushHandle(identity string, handle presence.Handle, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(ev.Type)).Msg("Error marshaling event.")
		return
	}
	if !handle.Enqueue(data) {
		h.logger.Warn().
			Str("identity", identity).
			Str("event_type", string(ev.Type)).
			Msg("Send queue full, dropping event.")
	}
}
