/*
Package store defines the persistence boundary of the chat core.

The core only ever touches messages and channels through the narrow Store
contract below; everything behind it (Postgres in production, the in-memory
implementation in tests and development) is an external collaborator. Store
calls are the only blocking points in the core.
*/
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced message or channel does not exist.
var ErrNotFound = errors.New("store: not found")

// MessageStatus is the delivery status of a message. The transition is
// monotonic: "sent" may become "read", never the reverse.
type MessageStatus string

const (
	StatusSent MessageStatus = "sent"
	StatusRead MessageStatus = "read"
)

// MessageType selects the content variant carried by a message.
type MessageType string

const (
	TypeText  MessageType = "text"
	TypeFile  MessageType = "file"
	TypeAudio MessageType = "audio"
)

// Message is a persisted chat message. Exactly one of Recipient (direct) and
// ChannelID (group) is set. The store is the source of truth for ID, Status,
// and Timestamp.
type Message struct {
	ID        string        `json:"id"`
	Sender    string        `json:"sender"`
	Recipient string        `json:"recipient,omitempty"`
	ChannelID string        `json:"channelId,omitempty"`
	Type      MessageType   `json:"messageType"`
	Content   string        `json:"content,omitempty"`
	FileURL   string        `json:"fileUrl,omitempty"`
	AudioURL  string        `json:"audioUrl,omitempty"`
	Status    MessageStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// Channel is a persisted group conversation. Members always contains the
// admin; the admin is additionally tracked separately and is fixed for the
// channel's lifetime.
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Admin     string    `json:"admin"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the CRUD contract the chat core depends on.
type Store interface {
	// CreateMessage persists m with a fresh id, a "sent" status, and a store
	// timestamp, and returns the canonical stored record.
	CreateMessage(ctx context.Context, m Message) (Message, error)

	// GetMessage returns the message with the given id, or ErrNotFound.
	GetMessage(ctx context.Context, id string) (Message, error)

	// UpdateMessageStatus sets the status of the message and returns the
	// canonical record as stored after the write.
	UpdateMessageStatus(ctx context.Context, id string, status MessageStatus) (Message, error)

	// FindUnread returns all direct messages from sender to recipient that are
	// still in "sent" status, oldest first.
	FindUnread(ctx context.Context, sender, recipient string) ([]Message, error)

	// ListDirectMessages returns the full direct history between a and b in
	// timestamp order. Used by the reconciliation fetch.
	ListDirectMessages(ctx context.Context, a, b string) ([]Message, error)

	// DeleteDirectMessages removes the direct history between a and b in both
	// directions and returns the number of deleted messages.
	DeleteDirectMessages(ctx context.Context, a, b string) (int64, error)

	// CreateChannel persists c with a fresh id and returns the stored record.
	CreateChannel(ctx context.Context, c Channel) (Channel, error)

	// GetChannel returns the channel with the given id, or ErrNotFound.
	GetChannel(ctx context.Context, id string) (Channel, error)

	// UpdateChannelMembers replaces the channel's member set.
	UpdateChannelMembers(ctx context.Context, id string, members []string) error

	// DeleteChannel removes the channel record.
	DeleteChannel(ctx context.Context, id string) error

	// AttachToChannel links a persisted message into the channel's message list.
	AttachToChannel(ctx context.Context, channelID, messageID string) error

	// ListChannelMessages returns the channel's messages in timestamp order.
	ListChannelMessages(ctx context.Context, channelID string) ([]Message, error)

	// DeleteChannelMessages removes every message referencing the channel and
	// returns the number of deleted messages.
	DeleteChannelMessages(ctx context.Context, channelID string) (int64, error)
}
