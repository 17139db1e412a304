/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, resolving
the participant identity, upgrading the HTTP connection to WebSocket, and initiating the session lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"syncwire/internal/app/chat"
	"syncwire/internal/pkg/auth/jwt"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/limiter"
	"syncwire/internal/pkg/logx"
	"syncwire/internal/pkg/randx"
	"syncwire/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// Identity comes from the "token" query parameter (a signed JWT). In development
// a bare "uid" query parameter is accepted instead, so local clients can connect
// without an external token issuer.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()

		identity := ""
		if tokenString := query.Get("token"); tokenString != "" {
			payload, parseErr := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
			if parseErr != nil {
				logx.Warn("WebSocket connection rejected: Invalid token", "error", parseErr)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			identity = payload.Identity
		} else if deps.Config.IsDevelopment() {
			identity = query.Get("uid")
		}

		if !randx.ValidIdentity(identity) {
			logx.Warn("WebSocket connection rejected: Missing or invalid identity")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidIdentity))
			return
		}

		logx.Info("Attempting to upgrade connection", "identity", identity)

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		conn := chat.NewConn(deps.Hub, ws, identity)

		go conn.WritePump()

		deps.Hub.Connect(identity, conn)

		logx.Info("WebSocket connection established and session registered", "identity", identity)

		conn.ReadPump(r.Context())
	}
}
