/*
Package chat contains the presence and delivery-synchronization core: message
fan-out, read receipts, typing debounce, unread counters, and roster broadcast
consistency. Package chat owns no durable state; persistence goes through the
store contract and live delivery goes through the presence registry.

This file defines the outbound event envelope pushed to live connections and
the inbound command envelope read from them.
*/
package chat

import "time"

// EventType names an outbound event pushed to a client connection.
type EventType string

const (
	// EventReceiveMessage delivers a direct message record (recipient and
	// sender echo alike).
	EventReceiveMessage EventType = "receive_message"

	// EventReceiveChannelMessage delivers a channel message record, annotated
	// with its channel id.
	EventReceiveChannelMessage EventType = "receive_channel_message"

	// EventMessageStatus carries the canonical record of a message whose
	// delivery status changed.
	EventMessageStatus EventType = "message_status"

	// EventTyping signals that a peer started or stopped typing.
	EventTyping EventType = "typing"

	// EventUnreadCount carries the new unread counter value for one
	// conversation of the receiving identity.
	EventUnreadCount EventType = "unread_count"

	// EventUnreadSnapshot carries all unread counters of the receiving identity.
	EventUnreadSnapshot EventType = "unread_snapshot"

	// EventChannelAdded notifies members that a channel they belong to was created.
	EventChannelAdded EventType = "channel_added"

	// EventChannelMembers carries a roster delta for a channel.
	EventChannelMembers EventType = "channel_members"

	// EventChannelDisbanded notifies that a channel and its messages are gone.
	EventChannelDisbanded EventType = "channel_disbanded"

	// EventChatDeleted notifies both parties that a direct history was deleted.
	EventChatDeleted EventType = "chat_deleted"

	// EventError reports an operation failure to the originating connection only.
	EventError EventType = "error"
)

// Event is the outbound envelope. The payload shape depends on Type.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// TypingPayload reports a typing state change. Peer is the counterpart
// identity for direct conversations; ChannelID is set for group typing.
type TypingPayload struct {
	Sender    string `json:"sender"`
	Peer      string `json:"peer,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
	Typing    bool   `json:"typing"`
}

// UnreadCountPayload carries one counter of the receiving identity.
type UnreadCountPayload struct {
	Counterpart string `json:"counterpart"`
	Count       int    `json:"count"`
}

// UnreadSnapshotPayload carries every non-zero counter of the receiving identity.
type UnreadSnapshotPayload struct {
	Counts map[string]int `json:"counts"`
}

// ChannelMembersPayload is the roster delta broadcast after add-members or leave.
type ChannelMembersPayload struct {
	ChannelID string   `json:"channelId"`
	Joined    []string `json:"joined,omitempty"`
	Left      string   `json:"left,omitempty"`
	Members   []string `json:"members"`
}

// ChannelDisbandedPayload notifies of a disband. IsRequesterAdmin is true only
// on the event instance delivered to the admin who disbanded; the rest of the
// payload is identical for every receiver.
type ChannelDisbandedPayload struct {
	ChannelID        string `json:"channelId"`
	Name             string `json:"name"`
	DisbandedBy      string `json:"disbandedBy"`
	IsRequesterAdmin bool   `json:"isRequesterAdmin"`
}

// ChatDeletedPayload notifies both parties of a direct history deletion.
type ChatDeletedPayload struct {
	DeletedBy string    `json:"deletedBy"`
	Peer      string    `json:"peer"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorPayload reports a coded operation failure.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CommandType names an inbound client command read off a connection.
type CommandType string

const (
	CmdSendMessage        CommandType = "send_message"
	CmdSendChannelMessage CommandType = "send_channel_message"
	CmdTyping             CommandType = "typing"
	CmdStopTyping         CommandType = "stop_typing"
	CmdChannelTyping      CommandType = "channel_typing"
	CmdStopChannelTyping  CommandType = "stop_channel_typing"
	CmdMessageRead        CommandType = "message_read"
	CmdJoinConversation   CommandType = "join_conversation"
	CmdLeaveConversation  CommandType = "leave_conversation"
	CmdUnreadSnapshot     CommandType = "unread_snapshot"
)
