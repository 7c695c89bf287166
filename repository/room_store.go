package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-splendor/engine"
	"go-splendor/entities"

	"github.com/go-redis/redis/v8"
)

var ErrRoomNotFound = errors.New("房间不存在")

// RoomStore 房间信息和最新快照的缓存，房间过期后自动消失
type RoomStore interface {
	SaveRoom(ctx context.Context, info entities.RoomInfo) error
	GetRoom(ctx context.Context, roomID string) (entities.RoomInfo, error)
	ListRooms(ctx context.Context) ([]entities.RoomInfo, error)
	DeleteRoom(ctx context.Context, roomID string) error
	SaveSnapshot(ctx context.Context, roomID string, s *engine.GameState) error
	LoadSnapshot(ctx context.Context, roomID string) (*engine.GameState, error)
}

const roomIndexKey = "rooms"

func roomInfoKey(roomID string) string  { return fmt.Sprintf("room:%s:info", roomID) }
func roomStateKey(roomID string) string { return fmt.Sprintf("room:%s:state", roomID) }

type RedisRoomStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRoomStore(rdb *redis.Client, ttl time.Duration) *RedisRoomStore {
	return &RedisRoomStore{rdb: rdb, ttl: ttl}
}

func (r *RedisRoomStore) SaveRoom(ctx context.Context, info entities.RoomInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("房间信息序列化失败: %w", err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, roomInfoKey(info.RoomID), data, r.ttl)
	pipe.SAdd(ctx, roomIndexKey, info.RoomID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存房间信息失败: %w", err)
	}
	return nil
}

func (r *RedisRoomStore) GetRoom(ctx context.Context, roomID string) (entities.RoomInfo, error) {
	var info entities.RoomInfo
	raw, err := r.rdb.Get(ctx, roomInfoKey(roomID)).Bytes()
	if err == redis.Nil {
		return info, ErrRoomNotFound
	}
	if err != nil {
		return info, fmt.Errorf("获取房间信息失败: %w", err)
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return info, fmt.Errorf("房间信息解析失败: %w", err)
	}
	return info, nil
}

// ListRooms 顺便清理索引中已过期的房间
func (r *RedisRoomStore) ListRooms(ctx context.Context) ([]entities.RoomInfo, error) {
	ids, err := r.rdb.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("获取房间列表失败: %w", err)
	}
	rooms := make([]entities.RoomInfo, 0, len(ids))
	for _, id := range ids {
		info, err := r.GetRoom(ctx, id)
		if errors.Is(err, ErrRoomNotFound) {
			r.rdb.SRem(ctx, roomIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, info)
	}
	sortRooms(rooms)
	return rooms, nil
}

func (r *RedisRoomStore) DeleteRoom(ctx context.Context, roomID string) error {
	// 用 SCAN 查找所有以 room:{roomID}: 开头的 key
	prefix := fmt.Sprintf("room:%s:", roomID)
	var cursor uint64
	var keysToDelete []string
	for {
		keys, cur, err := r.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("扫描房间相关 key 失败: %w", err)
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	r.rdb.SRem(ctx, roomIndexKey, roomID)
	if len(keysToDelete) == 0 {
		return ErrRoomNotFound
	}
	if err := r.rdb.Del(ctx, keysToDelete...).Err(); err != nil {
		return fmt.Errorf("删除房间相关 key 失败: %w", err)
	}
	return nil
}

func (r *RedisRoomStore) SaveSnapshot(ctx context.Context, roomID string, s *engine.GameState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("快照序列化失败: %w", err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, roomStateKey(roomID), data, r.ttl)
	pipe.Expire(ctx, roomInfoKey(roomID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("保存快照失败: %w", err)
	}
	return nil
}

func (r *RedisRoomStore) LoadSnapshot(ctx context.Context, roomID string) (*engine.GameState, error) {
	raw, err := r.rdb.Get(ctx, roomStateKey(roomID)).Bytes()
	if err == redis.Nil {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("获取快照失败: %w", err)
	}
	var s engine.GameState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("快照解析失败: %w", err)
	}
	return &s, nil
}

// MemoryRoomStore 单进程使用，测试和本地调试用
type MemoryRoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]entities.RoomInfo
	states map[string]*engine.GameState
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{
		rooms:  map[string]entities.RoomInfo{},
		states: map[string]*engine.GameState{},
	}
}

func (m *MemoryRoomStore) SaveRoom(_ context.Context, info entities.RoomInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[info.RoomID] = info
	return nil
}

func (m *MemoryRoomStore) GetRoom(_ context.Context, roomID string) (entities.RoomInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.rooms[roomID]
	if !ok {
		return info, ErrRoomNotFound
	}
	return info, nil
}

func (m *MemoryRoomStore) ListRooms(_ context.Context) ([]entities.RoomInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]entities.RoomInfo, 0, len(m.rooms))
	for _, info := range m.rooms {
		rooms = append(rooms, info)
	}
	sortRooms(rooms)
	return rooms, nil
}

func (m *MemoryRoomStore) DeleteRoom(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	delete(m.rooms, roomID)
	delete(m.states, roomID)
	return nil
}

func (m *MemoryRoomStore) SaveSnapshot(_ context.Context, roomID string, s *engine.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[roomID] = s.Clone()
	return nil
}

func (m *MemoryRoomStore) LoadSnapshot(_ context.Context, roomID string) (*engine.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s.Clone(), nil
}

// sortRooms 新房间在前
func sortRooms(rooms []entities.RoomInfo) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt != rooms[j].CreatedAt {
			return rooms[i].CreatedAt > rooms[j].CreatedAt
		}
		return rooms[i].RoomID < rooms[j].RoomID
	})
}
