package nats

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps one NATS connection plus the per-user room
// subscriptions hanging off it.
type NATSClient struct {
	Conn       *nats.Conn
	SubMapping map[string]*nats.Subscription // keyed by "room:username"
	mu         sync.Mutex
}

func NewNATSClient(url string) (*NATSClient, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSClient{
		Conn:       nc,
		SubMapping: make(map[string]*nats.Subscription),
	}, nil
}

func (c *NATSClient) Close() {
	c.Conn.Close()
}

func roomSubject(room string) string {
	return fmt.Sprintf("chat.room.%s", room)
}

func subKey(room, username string) string {
	return fmt.Sprintf("%s:%s", room, username)
}
