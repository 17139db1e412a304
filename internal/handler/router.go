/*
Package handler provides the HTTP handlers and routing setup for the Syncwire server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"syncwire/internal/pkg/auth/jwt"
	"syncwire/internal/pkg/errs"
	"syncwire/internal/pkg/limiter"
	"syncwire/internal/pkg/logx"
	"syncwire/internal/pkg/randx"
	"syncwire/internal/pkg/resp"
)

const (
	CreateRate   = 0.05
	CreateBurst  = 2
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Syncwire Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/channel", func(ch chi.Router) {
			rateLimitedCreate := createLimiter.Middleware(HandleCreateChannel(deps))
			ch.Post("/create", rateLimitedCreate.ServeHTTP)
			ch.Post("/add-members", HandleAddMembers(deps))
			ch.Post("/leave", HandleLeaveChannel(deps))
			ch.Post("/disband", HandleDisbandChannel(deps))
			ch.Get("/{id}/messages", HandleChannelHistory(deps))
		})

		api.Get("/messages/direct", HandleDirectHistory(deps))
		api.Post("/chat/delete", HandleDeleteChat(deps))

		api.Post("/file/presign-upload", HandlePresignUploadURL(deps))
		api.Get("/file/presign-download", HandlePresignDownloadURL(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}

// requireIdentity resolves the caller's identity for REST handlers. Production
// requires a valid JWT; development also accepts the X-Identity header so the
// API can be exercised without an external token issuer.
func requireIdentity(deps *AppDeps, r *http.Request) (string, *errs.CustomError) {
	if payload := jwt.GetPayloadFromContext(r); payload != nil {
		if !randx.ValidIdentity(payload.Identity) {
			return "", errs.NewError(errs.ErrInvalidIdentity)
		}
		return payload.Identity, nil
	}

	if deps.Config.IsDevelopment() {
		if id := r.Header.Get("X-Identity"); randx.ValidIdentity(id) {
			return id, nil
		}
	}

	return "", errs.NewError(errs.ErrUnauthorized)
}
