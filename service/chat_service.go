package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rierra/amongbot/internal/domain"
	"github.com/Rierra/amongbot/internal/port"
	"github.com/Rierra/amongbot/internal/registry"
	"github.com/Rierra/amongbot/pkg/logger"
)

const (
	baseReplyDelay = 300 * time.Millisecond
	maxExtraDelay  = 2000 * time.Millisecond
	perCharDelay   = 30 // milliseconds per character of the user message
	jitterRangeMs  = 1000
)

// replyDelay computes how long AI_Buddy pretends to type before answering.
// Longer user messages earn longer pauses, capped so the room never waits
// more than 2.3s.
func replyDelay(messageLength, jitterMs int) time.Duration {
	extra := time.Duration(messageLength*perCharDelay+jitterMs) * time.Millisecond
	if extra > maxExtraDelay {
		extra = maxExtraDelay
	}
	return baseReplyDelay + extra
}

type chatService struct {
	broadcaster port.Broadcaster
	presence    port.Presence
	reg         *registry.Registry
	responder   port.Responder
	logg        logger.Logger

	// schedule defers the bot reply without blocking the caller.
	// Swapped for a synchronous version in tests.
	schedule func(d time.Duration, f func())
}

func NewChatService(
	broadcaster port.Broadcaster,
	presence port.Presence,
	reg *registry.Registry,
	responder port.Responder,
	logg logger.Logger,
) port.ChatService {
	return &chatService{
		broadcaster: broadcaster,
		presence:    presence,
		reg:         reg,
		responder:   responder,
		logg:        logg,
		schedule:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

func (c *chatService) publish(room string, msg domain.ChatMessage) {
	msg.Room = room
	if err := c.broadcaster.PublishRoom(room, msg); err != nil {
		c.logg.Errorf("publish to room %s failed: %v", room, err)
	}
}

func (c *chatService) publishSystem(room, content string) {
	c.publish(room, domain.ChatMessage{
		Type:      domain.MessageTypeSystem,
		Sender:    domain.SystemSender,
		Content:   content,
		Timestamp: domain.Timestamp(time.Now()),
	})
}

// JoinRoom wires a user into a room: membership, broadcast subscription,
// and the join notices. The room's bot state is pinned here so the AI
// toggle defaults to enabled before anyone flips it.
func (c *chatService) JoinRoom(room, username string, handle func(domain.ChatMessage)) error {
	if room == "" || username == "" {
		return fmt.Errorf("room name and username cannot be empty")
	}

	c.reg.Touch(room)

	if err := c.presence.AddRoomMember(room, username); err != nil {
		return fmt.Errorf("failed to add user to room: %w", err)
	}

	if err := c.broadcaster.SubscribeRoom(room, username, handle); err != nil {
		return fmt.Errorf("failed to subscribe to room: %w", err)
	}

	c.publishSystem(room, fmt.Sprintf("%s joined the room", username))
	c.publishSystem(room, fmt.Sprintf("%s (bot) just pulled up", domain.BotName))

	c.logg.Infof("%s joined room %s", username, room)
	return nil
}

func (c *chatService) LeaveRoom(room, username string) error {
	if room == "" || username == "" {
		return fmt.Errorf("room name and username cannot be empty")
	}

	c.publishSystem(room, fmt.Sprintf("%s left the room", username))

	if err := c.broadcaster.UnsubscribeRoom(room, username); err != nil {
		c.logg.Errorf("failed to unsubscribe from room %s: %v", room, err)
		// keep going so membership is still cleaned up
	}

	if err := c.presence.RemoveRoomMember(room, username); err != nil {
		return fmt.Errorf("failed to remove user from room: %w", err)
	}

	c.logg.Infof("%s left room %s", username, room)
	return nil
}

func (c *chatService) SwitchRoom(oldRoom, newRoom, username string, handle func(domain.ChatMessage)) error {
	if err := c.LeaveRoom(oldRoom, username); err != nil {
		return fmt.Errorf("failed to leave old room: %w", err)
	}

	if err := c.JoinRoom(newRoom, username, handle); err != nil {
		// Try to rejoin old room on failure
		_ = c.JoinRoom(oldRoom, username, handle)
		return fmt.Errorf("failed to join new room: %w", err)
	}

	return nil
}

// HandleUserMessage broadcasts the user's line immediately, then - when the
// room's AI is enabled and no reply is already in flight - simulates the
// bot typing for a while before posting its answer. The stop-typing signal
// always goes out, reply or not.
func (c *chatService) HandleUserMessage(username, room, content string) {
	c.publish(room, domain.ChatMessage{
		Type:      domain.MessageTypeChat,
		Sender:    username,
		Content:   content,
		Timestamp: domain.Timestamp(time.Now()),
	})

	if !c.reg.AIEnabled(room) {
		return
	}
	if !c.reg.TryAcquireReply(room) {
		c.logg.Debugf("bot reply already pending for room %s", room)
		return
	}

	c.publish(room, domain.ChatMessage{
		Type:   domain.MessageTypeUserTyping,
		Sender: domain.BotName,
	})

	delay := replyDelay(len(content), rand.Intn(jitterRangeMs))
	c.schedule(delay, func() {
		defer c.reg.ReleaseReply(room)

		reply := c.responder.Reply(context.Background(), room, content)
		if reply != "" {
			c.publish(room, domain.ChatMessage{
				Type:      domain.MessageTypeChat,
				Sender:    domain.BotName,
				Content:   reply,
				Timestamp: domain.Timestamp(time.Now()),
			})
		}

		c.publish(room, domain.ChatMessage{
			Type:   domain.MessageTypeUserStoppedTyping,
			Sender: domain.BotName,
		})
	})
}

// ToggleAI records the last-write-wins bot switch and tells the room.
func (c *chatService) ToggleAI(room string, enabled bool) {
	c.reg.SetAIEnabled(room, enabled)

	status := "inactive"
	if enabled {
		status = "active"
	}
	c.publishSystem(room, fmt.Sprintf("%s is now %s", domain.BotName, status))
	c.logg.Infof("AI in room %s is now %s", room, status)
}

// Typing relays a user's typing indicator to the rest of the room. The
// subscriber layer filters the sender's own echo.
func (c *chatService) Typing(username, room string) {
	c.publish(room, domain.ChatMessage{
		Type:   domain.MessageTypeUserTyping,
		Sender: username,
	})
}

func (c *chatService) StopTyping(username, room string) {
	c.publish(room, domain.ChatMessage{
		Type:   domain.MessageTypeUserStoppedTyping,
		Sender: username,
	})
}

// Presence passthroughs.
func (c *chatService) AddActiveUser(username string) error {
	return c.presence.AddActiveUser(username)
}

func (c *chatService) RemoveActiveUser(username string) error {
	return c.presence.RemoveActiveUser(username)
}

func (c *chatService) ListActiveUsers() ([]string, error) {
	return c.presence.GetActiveUsers()
}

func (c *chatService) ListRoomMembers(room string) ([]string, error) {
	return c.presence.RoomMembers(room)
}

func (c *chatService) ListAllRooms() ([]string, error) {
	return c.presence.AllRooms()
}
