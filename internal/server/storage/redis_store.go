package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/math-battle/internal/protocol/codec"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "room:"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour
)

// RedisStore Redis 存储，只保存进行中的房间快照
// client 为 nil 时所有操作都是空操作
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Enabled reports whether a Redis client is configured.
func (rs *RedisStore) Enabled() bool {
	return rs != nil && rs.client != nil
}

// --- 房间存储 ---

// SaveRoom 保存房间快照到 Redis，并刷新过期时间
func (rs *RedisStore) SaveRoom(ctx context.Context, snap codec.Snapshot) error {
	if !rs.Enabled() {
		return nil
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	key := roomKeyPrefix + snap.RoomCode
	if err := rs.client.Set(ctx, key, codec.EncodeSnapshot(snap), roomExpiration).Err(); err != nil {
		return fmt.Errorf("save room %s: %w", snap.RoomCode, err)
	}
	return nil
}

// LoadRoom 从 Redis 加载房间快照，不存在时返回 nil, nil
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*codec.Snapshot, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	key := roomKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 房间不存在
		}
		return nil, err
	}

	snap, err := codec.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}
	return &snap, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	if !rs.Enabled() {
		return nil
	}

	key := roomKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// RoomCodes 获取所有房间号
func (rs *RedisStore) RoomCodes(ctx context.Context) ([]string, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	var codes []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, iter.Val()[len(roomKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// Ping 检查 Redis 连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Ping(ctx).Err()
}
