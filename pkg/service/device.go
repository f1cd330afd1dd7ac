package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// deviceStoreKeyPrefix is the prefix for device-scoped keys
	deviceStoreKeyPrefix = "review_engagement:device:"
	// deviceStoreDefaultTTL bounds device entries; they only hold short-lived
	// channel cooldowns (90 days comfortably outlives the longest window)
	deviceStoreDefaultTTL = 90 * 24 * time.Hour
)

// RedisDeviceStore implements DeviceStore using Redis. Keys are namespaced
// per device identifier by the caller.
type RedisDeviceStore struct {
	client *redis.Client
	cfg    RedisDeviceStoreConfig
}

type RedisDeviceStoreConfig struct{}

// NewRedisDeviceStore creates a new Redis-backed device store.
func NewRedisDeviceStore(
	client *redis.Client,
	cfg RedisDeviceStoreConfig,
) *RedisDeviceStore {
	return &RedisDeviceStore{
		client: client,
		cfg:    cfg,
	}
}

func makeDeviceStoreKey(key string) string {
	return fmt.Sprintf("%s%s", deviceStoreKeyPrefix, key)
}

// GetItem returns the stored value, or "" when the key is absent.
func (r *RedisDeviceStore) GetItem(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, makeDeviceStoreKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logrus.Errorf("failed to get device item %s: %v", key, err)
		return "", fmt.Errorf("failed to get device item: %w", err)
	}

	return data, nil
}

// SetItem stores a value under the device-scoped key.
func (r *RedisDeviceStore) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, makeDeviceStoreKey(key), value, deviceStoreDefaultTTL).Err(); err != nil {
		logrus.Errorf("failed to set device item %s: %v", key, err)
		return fmt.Errorf("failed to set device item: %w", err)
	}

	return nil
}
