package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Rierra/amongbot/config"
	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/nats"
	"github.com/Rierra/amongbot/internal/port"
	"github.com/Rierra/amongbot/internal/redis"
	"github.com/Rierra/amongbot/internal/registry"
	"github.com/Rierra/amongbot/pkg/logger"
	"github.com/Rierra/amongbot/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedResponder stands in for the Groq-backed bot so these tests only
// exercise the NATS/Redis plumbing.
type cannedResponder struct {
	reply string
}

func (c *cannedResponder) Reply(context.Context, string, string) string {
	return c.reply
}

func setupChatService(t *testing.T, reply string) (port.ChatService, *registry.Registry) {
	t.Helper()
	cfg := config.MustReadConfig("../../config_test.json")

	natsClient, err := nats.NewNATSClient(cfg.NATSURL)
	if err != nil {
		t.Skipf("NATS unavailable at %s: %v", cfg.NATSURL, err)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisURL)
	if err != nil {
		natsClient.Close()
		t.Skipf("Redis unavailable at %s: %v", cfg.RedisURL, err)
	}
	require.NoError(t, redisClient.FlushAll())

	reg := registry.New()
	chatService := service.NewChatService(
		natsClient,
		redisClient,
		reg,
		&cannedResponder{reply: reply},
		logger.NewLogger("debug", ""),
	)

	t.Cleanup(func() {
		_ = redisClient.FlushAll()
		_ = redisClient.Close()
		natsClient.CleanupSubscriptions()
		natsClient.Close()
	})

	return chatService, reg
}

func TestActiveUserManagement(t *testing.T) {
	chatService, _ := setupChatService(t, "hey")

	assert.NoError(t, chatService.AddActiveUser("user1"))
	assert.NoError(t, chatService.AddActiveUser("user2"))

	users, err := chatService.ListActiveUsers()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"user1", "user2"}, users)

	assert.NoError(t, chatService.RemoveActiveUser("user1"))

	users, err = chatService.ListActiveUsers()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"user2"}, users)
}

func TestRoomMembership(t *testing.T) {
	chatService, _ := setupChatService(t, "hey")
	handler := func(domain.ChatMessage) {}

	assert.NoError(t, chatService.JoinRoom("roomA", "user1", handler))
	assert.NoError(t, chatService.JoinRoom("roomA", "user2", handler))

	members, err := chatService.ListRoomMembers("roomA")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"user1", "user2"}, members)

	assert.NoError(t, chatService.LeaveRoom("roomA", "user1"))

	members, err = chatService.ListRoomMembers("roomA")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"user2"}, members)

	assert.NoError(t, chatService.LeaveRoom("roomA", "user2"))

	rooms, err := chatService.ListAllRooms()
	assert.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestMessageRoundTrip(t *testing.T) {
	chatService, _ := setupChatService(t, "hey")

	received := make(chan domain.ChatMessage, 16)
	require.NoError(t, chatService.JoinRoom("roomA", "listener", func(msg domain.ChatMessage) {
		received <- msg
	}))
	time.Sleep(100 * time.Millisecond) // let the subscription settle

	chatService.ToggleAI("roomA", false)
	chatService.HandleUserMessage("speaker", "roomA", "hello room")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-received:
			if msg.Type == domain.MessageTypeChat {
				assert.Equal(t, "speaker", msg.Sender)
				assert.Equal(t, "hello room", msg.Content)
				assert.Equal(t, "roomA", msg.Room)
				return
			}
		case <-deadline:
			t.Fatal("chat message never arrived over NATS")
		}
	}
}

func TestBotReplyArrivesWhenEnabled(t *testing.T) {
	chatService, _ := setupChatService(t, "yeah im around")

	received := make(chan domain.ChatMessage, 32)
	require.NoError(t, chatService.JoinRoom("roomA", "listener", func(msg domain.ChatMessage) {
		received <- msg
	}))
	time.Sleep(100 * time.Millisecond)

	chatService.HandleUserMessage("speaker", "roomA", "you around?")

	var sawTyping, sawReply bool
	deadline := time.After(4 * time.Second)
	for !sawReply {
		select {
		case msg := <-received:
			switch {
			case msg.Type == domain.MessageTypeUserTyping && msg.Sender == domain.BotName:
				sawTyping = true
			case msg.Type == domain.MessageTypeChat && msg.Sender == domain.BotName:
				assert.Equal(t, "yeah im around", msg.Content)
				sawReply = true
			}
		case <-deadline:
			t.Fatal("bot reply never arrived")
		}
	}
	assert.True(t, sawTyping, "typing indicator should precede the reply")
}

func TestNoBotReplyWhenDisabled(t *testing.T) {
	chatService, _ := setupChatService(t, "should not appear")

	received := make(chan domain.ChatMessage, 32)
	require.NoError(t, chatService.JoinRoom("roomA", "listener", func(msg domain.ChatMessage) {
		received <- msg
	}))
	time.Sleep(100 * time.Millisecond)

	chatService.ToggleAI("roomA", false)
	chatService.HandleUserMessage("speaker", "roomA", "hi")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case msg := <-received:
			assert.NotEqual(t, domain.BotName, msg.Sender, "AI-disabled room must stay silent")
		case <-deadline:
			return
		}
	}
}

func TestSwitchRoom(t *testing.T) {
	chatService, _ := setupChatService(t, "hey")
	handler := func(domain.ChatMessage) {}

	require.NoError(t, chatService.JoinRoom("room1", "user1", handler))
	require.NoError(t, chatService.SwitchRoom("room1", "room2", "user1", handler))

	members1, err := chatService.ListRoomMembers("room1")
	assert.NoError(t, err)
	assert.NotContains(t, members1, "user1")

	members2, err := chatService.ListRoomMembers("room2")
	assert.NoError(t, err)
	assert.Contains(t, members2, "user1")
}
