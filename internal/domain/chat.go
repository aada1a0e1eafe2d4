package domain

import "time"

type MessageType string

const (
	MessageTypeChat   MessageType = "chat_message"
	MessageTypeSystem MessageType = "system_message"
	MessageTypeJoin   MessageType = "join_room"

	MessageTypeToggleAI   MessageType = "toggle_ai"
	MessageTypeTyping     MessageType = "typing"
	MessageTypeStopTyping MessageType = "stop_typing"

	MessageTypeUserTyping        MessageType = "user_typing"
	MessageTypeUserStoppedTyping MessageType = "user_stopped_typing"
)

// SystemSender is the sender name used for server-generated notices.
const SystemSender = "SYSTEM"

// BotName is the username the AI participant posts under.
const BotName = "AI_Buddy"

// ChatMessage is the single JSON envelope exchanged over the websocket
// in both directions. Type discriminates the event; unused fields are
// omitted on the wire.
type ChatMessage struct {
	Type      MessageType `json:"type"`
	Sender    string      `json:"sender,omitempty"`
	Content   string      `json:"content,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Room      string      `json:"room,omitempty"`
	Enabled   *bool       `json:"enabled,omitempty"`
}

// HistoryEntry is one conversation turn kept as completion context.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Timestamp formats t the way chat lines display it.
func Timestamp(t time.Time) string {
	return t.Format("15:04:05")
}
