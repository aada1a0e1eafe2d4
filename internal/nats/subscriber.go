package nats

import (
	"encoding/json"
	"fmt"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/nats-io/nats.go"
)

// SubscribeRoom attaches handleFunc to the room's subject for one user.
// Chat and system messages are delivered to everyone in the room, the
// sender included; typing relays are the exception, since a client never
// needs its own typing indicator echoed back.
func (c *NATSClient) SubscribeRoom(room, username string, handleFunc func(domain.ChatMessage)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := subKey(room, username)
	if _, exists := c.SubMapping[key]; exists {
		return nil
	}

	sub, err := c.Conn.Subscribe(roomSubject(room), func(msg *nats.Msg) {
		var chatMsg domain.ChatMessage
		if err := json.Unmarshal(msg.Data, &chatMsg); err != nil {
			return // skip invalid messages
		}
		if isTypingRelay(chatMsg.Type) && chatMsg.Sender == username {
			return
		}
		handleFunc(chatMsg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to room %s: %w", room, err)
	}

	c.SubMapping[key] = sub
	return nil
}

func isTypingRelay(t domain.MessageType) bool {
	return t == domain.MessageTypeUserTyping || t == domain.MessageTypeUserStoppedTyping
}

// UnsubscribeRoom removes one user's subscription from a room. Missing
// subscriptions are not an error.
func (c *NATSClient) UnsubscribeRoom(room, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := subKey(room, username)
	if sub, exists := c.SubMapping[key]; exists {
		if err := sub.Unsubscribe(); err != nil {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}
		delete(c.SubMapping, key)
	}
	return nil
}

// CleanupSubscriptions drops every active subscription. Used during
// shutdown; unsubscribe errors are ignored so cleanup always completes.
func (c *NATSClient) CleanupSubscriptions() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, sub := range c.SubMapping {
		_ = sub.Unsubscribe()
		delete(c.SubMapping, key)
	}
}
