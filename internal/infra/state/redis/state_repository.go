// Package redisstate implements the ephemeral room store on Redis.
package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

// RedisStateRepository is the Redis implementation of StateRepository.
// Every key is scoped by room id so rooms can never collide.
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository creates a RedisStateRepository.
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "is:"
	}
	return &RedisStateRepository{client: client, keyPrefix: keyPrefix}
}

// --- Key helpers ---

func (r *RedisStateRepository) roomMetaKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:meta", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) roomUsersKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:users", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) roomContentKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:content", r.keyPrefix, roomID)
}

// --- StateRepository implementation ---

func (r *RedisStateRepository) SetRoomMeta(ctx context.Context, roomID uint, meta map[string]string) error {
	if len(meta) == 0 {
		return nil
	}
	key := r.roomMetaKey(roomID)
	fields := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		fields[k] = v
	}
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("redis: set meta for room %d on %s: %w", roomID, key, err)
	}
	return nil
}

func (r *RedisStateRepository) GetRoomMeta(ctx context.Context, roomID uint) (map[string]string, error) {
	key := r.roomMetaKey(roomID)
	meta, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get meta for room %d from %s: %w", roomID, key, err)
	}
	return meta, nil
}

func (r *RedisStateRepository) AddPresence(ctx context.Context, roomID uint, presence domain.Presence) error {
	key := r.roomUsersKey(roomID)
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("redis: marshal presence for user %d in room %d: %w", presence.UserID, roomID, err)
	}
	field := strconv.FormatUint(uint64(presence.UserID), 10)
	if err := r.client.HSet(ctx, key, field, data).Err(); err != nil {
		return fmt.Errorf("redis: add presence for user %d in room %d on %s: %w", presence.UserID, roomID, key, err)
	}
	return nil
}

func (r *RedisStateRepository) RemovePresence(ctx context.Context, roomID, userID uint) error {
	key := r.roomUsersKey(roomID)
	field := strconv.FormatUint(uint64(userID), 10)
	if err := r.client.HDel(ctx, key, field).Err(); err != nil {
		return fmt.Errorf("redis: remove presence for user %d in room %d on %s: %w", userID, roomID, key, err)
	}
	return nil
}

func (r *RedisStateRepository) GetPresence(ctx context.Context, roomID uint) (map[string]domain.Presence, error) {
	key := r.roomUsersKey(roomID)
	raw, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get presence for room %d from %s: %w", roomID, key, err)
	}
	users := make(map[string]domain.Presence, len(raw))
	for userID, data := range raw {
		var p domain.Presence
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			// A corrupt entry must not take the whole room read down.
			logrus.WithFields(logrus.Fields{
				"room_id": roomID,
				"user_id": userID,
			}).WithError(err).Warn("Skipping undecodable presence record")
			continue
		}
		users[userID] = p
	}
	return users, nil
}

func (r *RedisStateRepository) SetContent(ctx context.Context, roomID uint, content string) error {
	key := r.roomContentKey(roomID)
	if err := r.client.Set(ctx, key, content, 0).Err(); err != nil {
		return fmt.Errorf("redis: set content for room %d on %s: %w", roomID, key, err)
	}
	return nil
}

func (r *RedisStateRepository) GetContent(ctx context.Context, roomID uint) (string, error) {
	key := r.roomContentKey(roomID)
	content, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis: get content for room %d from %s: %w", roomID, key, err)
	}
	return content, nil
}

func (r *RedisStateRepository) ClearRoomState(ctx context.Context, roomID uint) error {
	keys := []string{r.roomMetaKey(roomID), r.roomUsersKey(roomID), r.roomContentKey(roomID)}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: clear state for room %d: %w", roomID, err)
	}
	return nil
}
