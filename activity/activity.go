package activity

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
)

// GetRegistry picks the activity backend: Redis when REDIS_ADDR is set
// (so several instances can share one room listing), in-process memory
// otherwise.
func GetRegistry() core.ActivityRegistry {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logrus.Info("Room activity registry: in-memory")
		return NewMemoryRegistry()
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, falling back to in-memory activity registry")
		return NewMemoryRegistry()
	}
	logrus.WithField("addr", addr).Info("Room activity registry: redis")
	return NewRedisRegistry(client)
}

// MemoryRegistry tracks last-active timestamps in a map.
type MemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]int64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{rooms: make(map[string]int64)}
}

func (m *MemoryRegistry) Touch(ctx context.Context, roomID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[roomID] = at.UnixMilli()
	return nil
}

func (m *MemoryRegistry) List(ctx context.Context) ([]core.RoomActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]core.RoomActivity, 0, len(m.rooms))
	for id, last := range m.rooms {
		rooms = append(rooms, core.RoomActivity{ID: id, LastActive: last})
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].LastActive == rooms[j].LastActive {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].LastActive > rooms[j].LastActive
	})
	return rooms, nil
}

// RedisRegistry keeps rooms in a sorted set scored by last-active time.
type RedisRegistry struct {
	client *redis.Client
}

const redisKey = "collabtool:rooms"

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Touch(ctx context.Context, roomID string, at time.Time) error {
	return r.client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: roomID,
	}).Err()
}

func (r *RedisRegistry) List(ctx context.Context) ([]core.RoomActivity, error) {
	entries, err := r.client.ZRevRangeWithScores(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]core.RoomActivity, 0, len(entries))
	for _, e := range entries {
		id, ok := e.Member.(string)
		if !ok {
			continue
		}
		rooms = append(rooms, core.RoomActivity{ID: id, LastActive: int64(e.Score)})
	}
	return rooms, nil
}
