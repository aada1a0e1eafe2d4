package nats

import (
	"encoding/json"
	"fmt"

	"github.com/Rierra/amongbot/internal/domain"
)

// PublishRoom serializes msg onto the room's subject. Every live
// subscription for that room sees it.
func (c *NATSClient) PublishRoom(room string, msg domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	return c.Conn.Publish(roomSubject(room), data)
}
