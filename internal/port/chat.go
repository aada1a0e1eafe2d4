// Package port declares the narrow interfaces the chat service depends on,
// so transports and stores can be swapped for fakes in tests.
package port

import (
	"context"

	"github.com/Rierra/amongbot/internal/domain"
)

// Broadcaster fans messages out to every subscriber of a room.
type Broadcaster interface {
	PublishRoom(room string, msg domain.ChatMessage) error
	SubscribeRoom(room, username string, handle func(domain.ChatMessage)) error
	UnsubscribeRoom(room, username string) error
}

// Presence tracks which users are online and which rooms they occupy.
type Presence interface {
	AddActiveUser(username string) error
	RemoveActiveUser(username string) error
	GetActiveUsers() ([]string, error)
	IsUserActive(username string) (bool, error)

	AddRoomMember(room, username string) error
	RemoveRoomMember(room, username string) error
	RoomMembers(room string) ([]string, error)
	AllRooms() ([]string, error)
}

// Responder produces the bot's reply to one user message. An empty string
// means no reply should be broadcast.
type Responder interface {
	Reply(ctx context.Context, room, userMessage string) string
}

// ChatService is the behavior the websocket layer drives.
type ChatService interface {
	JoinRoom(room, username string, handle func(domain.ChatMessage)) error
	LeaveRoom(room, username string) error
	SwitchRoom(oldRoom, newRoom, username string, handle func(domain.ChatMessage)) error

	HandleUserMessage(username, room, content string)
	ToggleAI(room string, enabled bool)
	Typing(username, room string)
	StopTyping(username, room string)

	AddActiveUser(username string) error
	RemoveActiveUser(username string) error
	ListActiveUsers() ([]string, error)
	ListRoomMembers(room string) ([]string, error)
	ListAllRooms() ([]string, error)
}
