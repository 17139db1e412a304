/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging and Conversation Errors
	ErrMessageNotFound:       {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrChannelNotFound:       {Code: ErrChannelNotFound, Message: "Channel not found.", Status: http.StatusNotFound},
	ErrSelfMessage:           {Code: ErrSelfMessage, Message: "You cannot send a message to yourself.", Status: http.StatusBadRequest},
	ErrEmptyContent:          {Code: ErrEmptyContent, Message: "Message content is empty.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrInvalidIdentity:       {Code: ErrInvalidIdentity, Message: "Invalid user identity.", Status: http.StatusBadRequest},
	ErrInvalidChannelName:    {Code: ErrInvalidChannelName, Message: "Invalid channel name.", Status: http.StatusBadRequest},

	// 3xxx: Roster and Permission Errors
	ErrNotChannelMember:    {Code: ErrNotChannelMember, Message: "You are not a member of this channel.", Status: http.StatusForbidden},
	ErrNotChannelAdmin:     {Code: ErrNotChannelAdmin, Message: "Only the channel admin can do this.", Status: http.StatusForbidden},
	ErrAdminCannotLeave:    {Code: ErrAdminCannotLeave, Message: "The admin cannot leave the channel. Disband it instead.", Status: http.StatusForbidden},
	ErrNotMessageRecipient: {Code: ErrNotMessageRecipient, Message: "You cannot mark this message as read.", Status: http.StatusForbidden},
	ErrNoNewMembers:        {Code: ErrNoNewMembers, Message: "All selected users are already members.", Status: http.StatusBadRequest},
	ErrUnauthorized:        {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionKicked:       {Code: ErrSessionKicked, Message: "You were signed in on another device.", Status: http.StatusConflict},

	// 4xxx: Attachment Errors
	ErrFileSizeTooLarge:     {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:      {Code: ErrFileTypeInvalid, Message: "This file type is not allowed.", Status: http.StatusBadRequest},
	ErrAttachmentKeyInvalid: {Code: ErrAttachmentKeyInvalid, Message: "Invalid attachment.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStorePersistence:  {Code: ErrStorePersistence, Message: "Could not save your message. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
