package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// reviewStateKeyPrefix is the prefix for all tenant review state keys
	reviewStateKeyPrefix = "review_engagement:tenant_state:"
)

// RedisReviewStateStore implements StateStore using Redis.
type RedisReviewStateStore struct {
	client *redis.Client
	cfg    RedisReviewStateStoreConfig
}

type RedisReviewStateStoreConfig struct{}

// NewRedisReviewStateStore creates a new Redis-backed review state store.
func NewRedisReviewStateStore(
	client *redis.Client,
	cfg RedisReviewStateStoreConfig,
) *RedisReviewStateStore {
	return &RedisReviewStateStore{
		client: client,
		cfg:    cfg,
	}
}

// makeReviewStateKey creates a Redis key for a tenant
func makeReviewStateKey(tenantID string) string {
	return fmt.Sprintf("%s%s", reviewStateKeyPrefix, tenantID)
}

// GetReviewState retrieves the review state for a tenant from Redis.
// Unknown tenants get a fresh zero state stamped with CreatedAt=now, which
// becomes the cooldown baseline until the first prompt. The zero state is
// persisted immediately: the baseline must not move on subsequent reads, or
// the first cooldown window would never expire.
func (r *RedisReviewStateStore) GetReviewState(ctx context.Context, tenantID string) (*state.ReviewState, error) {
	key := makeReviewStateKey(tenantID)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		logrus.Debugf("no existing state for tenant %s, creating zero state", tenantID)
		s := &state.ReviewState{
			ReviewPosted: false,
			RequestCount: 0,
			CreatedAt:    time.Now(),
		}
		if err := r.UpdateReviewState(ctx, tenantID, s); err != nil {
			return nil, fmt.Errorf("failed to persist initial state: %w", err)
		}
		return s, nil
	}
	if err != nil {
		logrus.Errorf("failed to get state for tenant %s: %v", tenantID, err)
		return nil, fmt.Errorf("failed to get state: %w", err)
	}

	var s state.ReviewState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		logrus.Errorf("failed to unmarshal state for tenant %s: %v", tenantID, err)
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &s, nil
}

// UpdateReviewState writes the review state for a tenant to Redis. State is
// kept without a TTL: review history is never deleted during normal
// operation.
func (r *RedisReviewStateStore) UpdateReviewState(ctx context.Context, tenantID string, s *state.ReviewState) error {
	key := makeReviewStateKey(tenantID)

	data, err := json.Marshal(s)
	if err != nil {
		logrus.Errorf("failed to marshal state for tenant %s: %v", tenantID, err)
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		logrus.Errorf("failed to set state for tenant %s: %v", tenantID, err)
		return fmt.Errorf("failed to set state: %w", err)
	}

	logrus.Debugf("updated state for tenant %s", tenantID)
	return nil
}

// DeleteReviewState deletes the review state for a tenant from Redis.
func (r *RedisReviewStateStore) DeleteReviewState(ctx context.Context, tenantID string) error {
	key := makeReviewStateKey(tenantID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("failed to delete state for tenant %s: %v", tenantID, err)
		return fmt.Errorf("failed to delete state: %w", err)
	}

	logrus.Infof("deleted state for tenant %s", tenantID)
	return nil
}

// ListTenantIDs scans Redis for all tenants with review state. Used by the
// chat-automation sweep.
func (r *RedisReviewStateStore) ListTenantIDs(ctx context.Context) ([]string, error) {
	var tenantIDs []string

	iter := r.client.Scan(ctx, 0, reviewStateKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		tenantIDs = append(tenantIDs, strings.TrimPrefix(iter.Val(), reviewStateKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan tenant state keys: %w", err)
	}

	return tenantIDs, nil
}
