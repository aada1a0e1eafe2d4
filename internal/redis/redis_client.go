package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	activeUsersKey = "active_users"
	allRoomsKey    = "all_rooms"
)

func roomKey(room string) string {
	return "room:" + room
}

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient(redisURL string) (*RedisClient, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client, ctx: ctx}, nil
}

// AddActiveUser adds a user to the active users set.
func (r *RedisClient) AddActiveUser(username string) error {
	return r.client.SAdd(r.ctx, activeUsersKey, username).Err()
}

// RemoveActiveUser removes a user from the active users set.
func (r *RedisClient) RemoveActiveUser(username string) error {
	return r.client.SRem(r.ctx, activeUsersKey, username).Err()
}

// GetActiveUsers retrieves all active users.
func (r *RedisClient) GetActiveUsers() ([]string, error) {
	return r.client.SMembers(r.ctx, activeUsersKey).Result()
}

// IsUserActive checks membership in the active users set.
func (r *RedisClient) IsUserActive(username string) (bool, error) {
	return r.client.SIsMember(r.ctx, activeUsersKey, username).Result()
}

// AddRoomMember records a user in a room and tracks the room itself.
func (r *RedisClient) AddRoomMember(room, username string) error {
	if err := r.client.SAdd(r.ctx, roomKey(room), username).Err(); err != nil {
		return err
	}
	return r.client.SAdd(r.ctx, allRoomsKey, room).Err()
}

// RemoveRoomMember drops a user from a room, pruning the room from the
// all-rooms set once it empties.
func (r *RedisClient) RemoveRoomMember(room, username string) error {
	if err := r.client.SRem(r.ctx, roomKey(room), username).Err(); err != nil {
		return err
	}
	members, err := r.client.SMembers(r.ctx, roomKey(room)).Result()
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return r.client.SRem(r.ctx, allRoomsKey, room).Err()
	}
	return nil
}

// RoomMembers lists the users currently in a room.
func (r *RedisClient) RoomMembers(room string) ([]string, error) {
	return r.client.SMembers(r.ctx, roomKey(room)).Result()
}

// AllRooms lists every room with at least one member.
func (r *RedisClient) AllRooms() ([]string, error) {
	return r.client.SMembers(r.ctx, allRoomsKey).Result()
}

// FlushAll clears the entire database. Test helper.
func (r *RedisClient) FlushAll() error {
	return r.client.FlushAll(r.ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
