/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Messaging and Conversation Errors
const (
	// ErrMessageNotFound indicates that the referenced message id does not exist in the store.
	ErrMessageNotFound = 2101

	// ErrChannelNotFound indicates that the referenced channel id does not exist in the store.
	ErrChannelNotFound = 2102

	// ErrSelfMessage indicates an attempt to send a direct message where sender and recipient are the same identity.
	ErrSelfMessage = 2201

	// ErrEmptyContent indicates a text message with no content.
	ErrEmptyContent = 2202

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2203

	// ErrInvalidIdentity indicates a malformed or empty user identity.
	ErrInvalidIdentity = 2204

	// ErrInvalidChannelName indicates a malformed or empty channel name.
	ErrInvalidChannelName = 2205
)

// 3xxx: Roster and Permission Errors
const (
	// ErrNotChannelMember indicates a roster operation attempted by an identity that is not a channel member.
	ErrNotChannelMember = 3101

	// ErrNotChannelAdmin indicates an admin-only operation attempted by a non-admin identity.
	ErrNotChannelAdmin = 3102

	// ErrAdminCannotLeave indicates the channel admin attempted to leave instead of disbanding.
	ErrAdminCannotLeave = 3103

	// ErrNotMessageRecipient indicates a read receipt from an identity that is not the message recipient.
	ErrNotMessageRecipient = 3104

	// ErrNoNewMembers indicates an add-members request where every candidate is already in the roster.
	ErrNoNewMembers = 3201

	// ErrUnauthorized indicates the request lacks a valid session identity.
	ErrUnauthorized = 3301

	// ErrSessionKicked indicates that the current client connection has been replaced by a newer one.
	ErrSessionKicked = 3302
)

// 4xxx: Attachment Errors
const (
	// ErrFileSizeTooLarge indicates that the declared attachment size exceeds the limit.
	ErrFileSizeTooLarge = 4101

	// ErrFileTypeInvalid indicates a disallowed attachment file type.
	ErrFileTypeInvalid = 4102

	// ErrAttachmentKeyInvalid indicates an attachment key outside the requester's namespace.
	ErrAttachmentKeyInvalid = 4103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStorePersistence indicates that a message store operation failed; the in-flight
	// operation is aborted before any fan-out.
	ErrStorePersistence = 5001

	// ErrFileStorageFailed indicates a failure talking to the object storage backend.
	ErrFileStorageFailed = 5002
)
