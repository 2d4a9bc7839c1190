package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// ErrMiss is returned when a key is absent
var ErrMiss = errors.New("cache miss")

// Config holds Redis configuration
type Config struct {
	Host       string
	Port       int
	Password   string
	DB         int
	SearchTTL  time.Duration
	SessionTTL time.Duration
	MutexTTL   time.Duration
}

// LoadConfigFromEnv loads Redis configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	searchTTL, _ := time.ParseDuration(getEnv("SEARCH_CACHE_TTL", "5m"))
	sessionTTL, _ := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	mutexTTL, _ := time.ParseDuration(getEnv("CACHE_MUTEX_TTL", "5s"))

	return &Config{
		Host:       getEnv("REDIS_HOST", "localhost"),
		Port:       port,
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         db,
		SearchTTL:  searchTTL,
		SessionTTL: sessionTTL,
		MutexTTL:   mutexTTL,
	}
}

// GetClient returns the global Redis client (singleton pattern)
func GetClient() (*redis.Client, error) {
	clientOnce.Do(func() {
		config := LoadConfigFromEnv()

		opts := &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password:     config.Password,
			DB:           config.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		}

		if getEnv("REDIS_TLS_ENABLED", "false") == "true" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		client = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			clientErr = fmt.Errorf("failed to connect to Redis: %w", err)
			return
		}
	})

	return client, clientErr
}

// Close closes the Redis client
func Close() {
	if client != nil {
		client.Close()
	}
}

// SearchKey generates a cache key for one journey-search request.
// The raw query string is hashed so arbitrary filter combinations
// produce bounded keys.
func SearchKey(date, rawQuery string) string {
	hash := sha256.Sum256([]byte(rawQuery))
	return fmt.Sprintf("search:%s:%x", date, hash[:8])
}

// SessionKey generates the storage key for a trip selection
func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// LockKey generates a mutex lock key
func LockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// GetJSON retrieves a JSON value into dest; ErrMiss when absent
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	c, err := GetClient()
	if err != nil {
		return err
	}

	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return nil
}

// SetJSON stores a JSON value with a TTL
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c, err := GetClient()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key
func Delete(ctx context.Context, key string) error {
	c, err := GetClient()
	if err != nil {
		return err
	}
	return c.Del(ctx, key).Err()
}

// AcquireLock attempts to acquire a distributed lock
// Returns true if the lock was acquired, false if already locked.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c, err := GetClient()
	if err != nil {
		return false, err
	}

	ok, err := c.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseLock releases a distributed lock
func ReleaseLock(ctx context.Context, key string) error {
	c, err := GetClient()
	if err != nil {
		return err
	}

	return c.Del(ctx, key).Err()
}

// WaitForLock waits for a lock to clear, then reads the cached value.
// Avoids a thundering herd when identical searches arrive concurrently.
func WaitForLock(ctx context.Context, key string, dest interface{}, maxWait time.Duration) error {
	c, err := GetClient()
	if err != nil {
		return err
	}

	lockKey := LockKey(key)
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		exists, err := c.Exists(ctx, lockKey).Result()
		if err != nil {
			return err
		}

		if exists == 0 {
			return GetJSON(ctx, key, dest)
		}

		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("timeout waiting for lock")
}

// HealthCheck performs a health check on the Redis connection
func HealthCheck(ctx context.Context) error {
	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("Redis client not initialized: %w", err)
	}

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis ping failed: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
