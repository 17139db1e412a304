package handler

import (
	"net/http"

	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/randx"
	"syncwire/internal/pkg/req"
	"syncwire/internal/pkg/resp"
)

// HandleDirectHistory returns the full direct conversation between the caller
// and the peer given by the "peer" query parameter, oldest first.
func HandleDirectHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		peer := r.URL.Query().Get("peer")
		if !randx.ValidIdentity(peer) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidIdentity))
			return
		}

		messages, customErr := deps.Hub.DirectHistory(r.Context(), identity, peer)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, messages)
	}
}

// DeleteChatInput identifies the peer whose direct history should be removed.
type DeleteChatInput struct {
	Peer string `json:"peer"`
}

// HandleDeleteChat removes the direct history between the caller and the peer
// in both directions and notifies both sides.
func HandleDeleteChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireIdentity(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input DeleteChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !randx.ValidIdentity(input.Peer) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidIdentity))
			return
		}

		if customErr := deps.Hub.DeleteChat(r.Context(), identity, input.Peer); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"peer": input.Peer})
	}
}
