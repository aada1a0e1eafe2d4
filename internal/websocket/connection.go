package websocket

import (
	"strings"
	"sync"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/port"
	"github.com/Rierra/amongbot/pkg/logger"
)

// wsConn is the subset of *gorilla/websocket.Conn the connection needs,
// kept as an interface so pump logic is testable without a live socket.
type wsConn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// Connection is one client session. It owns the read loop that dispatches
// inbound envelopes and the write loop that drains Send.
type Connection struct {
	ID          string
	Ws          wsConn
	Send        chan domain.ChatMessage
	Hub         *Hub
	ChatService port.ChatService
	Logger      logger.Logger
	Username    string

	mu          sync.Mutex
	currentRoom string
}

// CurrentRoom returns the room this connection has joined, or "".
func (c *Connection) CurrentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRoom
}

func (c *Connection) setCurrentRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRoom = room
}

// deliver queues msg for the client, dropping it if the buffer is full.
func (c *Connection) deliver(msg domain.ChatMessage) {
	select {
	case c.Send <- msg:
	default:
	}
}

// ReadPump consumes envelopes until the socket errors, cleaning up the
// session on the way out.
func (c *Connection) ReadPump() {
	defer func() {
		if room := c.CurrentRoom(); room != "" {
			if err := c.ChatService.LeaveRoom(room, c.Username); err != nil {
				c.Logger.Errorf("cleanup for %s failed: %v", c.Username, err)
			}
		}
		if err := c.ChatService.RemoveActiveUser(c.Username); err != nil {
			c.Logger.Errorf("failed to remove active user %s: %v", c.Username, err)
		}
		c.Hub.Unregister <- c
		c.Ws.Close()
	}()

	for {
		var msg domain.ChatMessage
		if err := c.Ws.ReadJSON(&msg); err != nil {
			c.Logger.Infof("connection closed for %s: %v", c.Username, err)
			return
		}
		c.dispatch(msg)
	}
}

// dispatch routes one inbound envelope. Malformed payloads are logged and
// skipped; a bad message from one client must not take the session down.
func (c *Connection) dispatch(msg domain.ChatMessage) {
	switch msg.Type {
	case domain.MessageTypeJoin:
		c.handleJoin(msg)
	case domain.MessageTypeChat:
		c.handleChat(msg)
	case domain.MessageTypeToggleAI:
		if msg.Room == "" || msg.Enabled == nil {
			c.Logger.Warnf("toggle_ai with missing fields from %s", c.Username)
			return
		}
		c.ChatService.ToggleAI(msg.Room, *msg.Enabled)
	case domain.MessageTypeTyping:
		if msg.Room != "" {
			c.ChatService.Typing(c.Username, msg.Room)
		}
	case domain.MessageTypeStopTyping:
		if msg.Room != "" {
			c.ChatService.StopTyping(c.Username, msg.Room)
		}
	default:
		c.Logger.Warnf("unknown message type %q from %s", msg.Type, c.Username)
	}
}

func (c *Connection) handleJoin(msg domain.ChatMessage) {
	if msg.Room == "" {
		c.Logger.Warnf("join_room without a room from %s", c.Username)
		return
	}

	prev := c.CurrentRoom()
	if prev == msg.Room {
		return
	}

	var err error
	if prev == "" {
		err = c.ChatService.JoinRoom(msg.Room, c.Username, c.deliver)
	} else {
		err = c.ChatService.SwitchRoom(prev, msg.Room, c.Username, c.deliver)
	}
	if err != nil {
		c.Logger.Errorf("join failed for %s: %v", c.Username, err)
		return
	}
	c.setCurrentRoom(msg.Room)
}

func (c *Connection) handleChat(msg domain.ChatMessage) {
	room := msg.Room
	if room == "" {
		room = c.CurrentRoom()
	}
	if room == "" || msg.Content == "" {
		c.Logger.Warnf("chat message with missing fields from %s", c.Username)
		return
	}

	// #users answers only the asking client
	if msg.Content == "#users" {
		users, err := c.ChatService.ListActiveUsers()
		if err != nil {
			c.Logger.Errorf("failed to list active users: %v", err)
			return
		}
		c.deliver(domain.ChatMessage{
			Type:      domain.MessageTypeSystem,
			Sender:    domain.SystemSender,
			Content:   "Active users: " + strings.Join(users, ", "),
			Timestamp: msg.Timestamp,
		})
		return
	}

	c.ChatService.HandleUserMessage(c.Username, room, msg.Content)
}

// WritePump drains Send onto the socket until the channel closes.
func (c *Connection) WritePump() {
	defer c.Ws.Close()

	for msg := range c.Send {
		if err := c.Ws.WriteJSON(msg); err != nil {
			c.Logger.Errorf("error sending message to %s: %v", c.Username, err)
			return
		}
	}
}
