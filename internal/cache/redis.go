package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// BoardTTL 보드 캐시 유지 시간. 만료돼도 DB가 원본이므로 안전하다.
const BoardTTL = 24 * time.Hour

// RedisClient wraps the Redis client for board document caching
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("[Redis] Connected to %s", addr)
	return &RedisClient{client: client}, nil
}

func boardKey(boardID int64) string {
	return fmt.Sprintf("board:%d:document", boardID)
}

// SetBoard caches a serialized board document (write-through, refreshes TTL)
func (r *RedisClient) SetBoard(ctx context.Context, boardID int64, data []byte) error {
	if err := r.client.Set(ctx, boardKey(boardID), data, BoardTTL).Err(); err != nil {
		log.Printf("[Redis] Failed to cache board %d: %v", boardID, err)
		return err
	}
	return nil
}

// GetBoard retrieves a cached board document. redis.Nil on miss.
func (r *RedisClient) GetBoard(ctx context.Context, boardID int64) ([]byte, error) {
	return r.client.Get(ctx, boardKey(boardID)).Bytes()
}

// IsMiss reports whether err is a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}

// DeleteBoard evicts a board document from the cache
func (r *RedisClient) DeleteBoard(ctx context.Context, boardID int64) error {
	return r.client.Del(ctx, boardKey(boardID)).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Health checks if Redis is healthy
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
