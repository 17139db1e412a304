package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/req"
	"syncwire/internal/pkg/resp"
)

// CreateChannelInput defines the JSON input structure for creating a channel.
type CreateChannelInput struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// HandleCreateChannel creates a channel with the caller as admin and notifies
// every connected initial member.
func HandleCreateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateChannelInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		channel, customErr := deps.Hub.CreateChannel(r.Context(), identity, input.Name, input.Members)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, channel)
	}
}

// ChannelMembersInput defines the JSON input structure for membership changes.
type ChannelMembersInput struct {
	ChannelID string   `json:"channelId"`
	Members   []string `json:"members"`
}

// HandleAddMembers adds new members to a channel on behalf of an existing member.
func HandleAddMembers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ChannelMembersInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ChannelID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		joined, customErr := deps.Hub.AddMembers(r.Context(), input.ChannelID, identity, input.Members)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"channelId": input.ChannelID,
			"joined":    joined,
		})
	}
}

// ChannelActionInput identifies the channel a leave or disband request targets.
type ChannelActionInput struct {
	ChannelID string `json:"channelId"`
}

// HandleLeaveChannel removes the caller from a channel's member set.
func HandleLeaveChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ChannelActionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ChannelID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Hub.LeaveChannel(r.Context(), input.ChannelID, identity); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"channelId": input.ChannelID})
	}
}

// HandleDisbandChannel deletes a channel and its message history. Admin only.
func HandleDisbandChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ChannelActionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ChannelID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Hub.DisbandChannel(r.Context(), input.ChannelID, identity); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"channelId": input.ChannelID})
	}
}

// HandleChannelHistory returns a channel's message history in timestamp order.
// Only current members may read it.
func HandleChannelHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		channelID := chi.URLParam(r, "id")
		if channelID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, customErr := deps.Hub.ChannelHistory(r.Context(), channelID, identity)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}
