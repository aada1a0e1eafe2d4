package ws

import (
	"context"
	"net/http"

	"github.com/Rierra/amongbot/internal/port"
	"github.com/Rierra/amongbot/internal/websocket"
	"github.com/Rierra/amongbot/pkg/logger"
)

type WSConfig struct {
	Hub         *websocket.Hub
	ChatService port.ChatService
	RootCtx     context.Context
}

func SetupWebSocketRoutes(cfg WSConfig) http.Handler {
	mux := http.NewServeMux()
	log := logger.FromContext(cfg.RootCtx).WithModule("websocket")
	mux.HandleFunc("/ws", HandleWebSocket(cfg.Hub, cfg.ChatService, log))
	return mux
}
