package handler

import (
	"syncwire/internal/app/chat"
	"syncwire/internal/app/storage"
	"syncwire/internal/app/store"
	"syncwire/internal/configs"
)

// AppDeps bundles the dependencies the HTTP and WebSocket handlers need.
type AppDeps struct {
	Hub            *chat.Hub
	Store          store.Store
	Config         *configs.AppConfig
	StorageService storage.StorageService
}
