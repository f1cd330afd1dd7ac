package service

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// adoptionKeyPrefix is the prefix for per-tenant feature adoption sets
	adoptionKeyPrefix = "review_engagement:features:"
)

// RedisAdoptionTracker implements AdoptionTracker with a Redis set per
// tenant, so toggling the same feature twice never double-counts.
type RedisAdoptionTracker struct {
	client *redis.Client
	cfg    RedisAdoptionTrackerConfig
}

type RedisAdoptionTrackerConfig struct{}

// NewRedisAdoptionTracker creates a new Redis-backed adoption tracker.
func NewRedisAdoptionTracker(
	client *redis.Client,
	cfg RedisAdoptionTrackerConfig,
) *RedisAdoptionTracker {
	return &RedisAdoptionTracker{
		client: client,
		cfg:    cfg,
	}
}

func makeAdoptionKey(tenantID string) string {
	return fmt.Sprintf("%s%s", adoptionKeyPrefix, tenantID)
}

// AddFeature records that a feature is enabled for the tenant.
func (r *RedisAdoptionTracker) AddFeature(ctx context.Context, tenantID, feature string) error {
	if err := r.client.SAdd(ctx, makeAdoptionKey(tenantID), feature).Err(); err != nil {
		logrus.Errorf("failed to add feature %s for tenant %s: %v", feature, tenantID, err)
		return fmt.Errorf("failed to add feature: %w", err)
	}

	return nil
}

// RemoveFeature records that a feature was disabled for the tenant.
func (r *RedisAdoptionTracker) RemoveFeature(ctx context.Context, tenantID, feature string) error {
	if err := r.client.SRem(ctx, makeAdoptionKey(tenantID), feature).Err(); err != nil {
		logrus.Errorf("failed to remove feature %s for tenant %s: %v", feature, tenantID, err)
		return fmt.Errorf("failed to remove feature: %w", err)
	}

	return nil
}

// Count returns the number of distinct features the tenant has enabled.
func (r *RedisAdoptionTracker) Count(ctx context.Context, tenantID string) (int, error) {
	n, err := r.client.SCard(ctx, makeAdoptionKey(tenantID)).Result()
	if err != nil {
		logrus.Errorf("failed to count features for tenant %s: %v", tenantID, err)
		return 0, fmt.Errorf("failed to count features: %w", err)
	}

	return int(n), nil
}
