package ws

import (
	"net/http"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/port"
	"github.com/Rierra/amongbot/internal/websocket"
	"github.com/Rierra/amongbot/pkg/logger"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
)

var upgrader = gws.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for testing; restrict in production.
	},
}

// HandleWebSocket upgrades the HTTP request, registers the session with
// the hub, and starts its pumps. Usernames are self-reported via the
// `username` query parameter; there is deliberately no authentication.
func HandleWebSocket(
	hub *websocket.Hub,
	chatService port.ChatService,
	logg logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Errorf("[WS HANDLER] Upgrade error: %v", err)
			http.Error(w, "Failed to upgrade", http.StatusInternalServerError)
			return
		}

		username := r.URL.Query().Get("username")
		if username == "" {
			logg.Errorf("[WS HANDLER] Missing username param")
			conn.Close()
			return
		}

		if err := chatService.AddActiveUser(username); err != nil {
			logg.Errorf("[WS HANDLER] Failed to add user '%s': %v", username, err)
		}

		client := &websocket.Connection{
			ID:          uuid.New().String(),
			Ws:          conn,
			Send:        make(chan domain.ChatMessage, 256),
			Hub:         hub,
			ChatService: chatService,
			Logger:      logg,
			Username:    username,
		}

		hub.Register <- client
		logg.Infof("[WS HANDLER] New connection from %s (user=%s)", conn.RemoteAddr(), username)

		go client.ReadPump()
		go client.WritePump()
	}
}
