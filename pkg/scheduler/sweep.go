package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/metrics"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// DefaultChatCooldownDays is how long the chat nudge stays quiet for a
	// tenant after it fires.
	DefaultChatCooldownDays = 10.0

	chatCooldownKeyPrefix = "chat_cooldown:"
)

// SweepStateStore is the subset of the state store the sweep needs.
type SweepStateStore interface {
	ListTenantIDs(ctx context.Context) ([]string, error)
	GetReviewState(ctx context.Context, tenantID string) (*state.ReviewState, error)
}

// Sweep periodically nudges tenants over the chat channel. It runs on its
// own cooldown, independent of the review prompt schedule: a tenant gets at
// most one chat nudge per cooldown window, and none at all once a review is
// posted.
type Sweep struct {
	stateStore   SweepStateStore
	cooldowns    service.DeviceStore
	channels     *channel.Registry
	chatChannel  string
	cooldownDays float64
}

// NewSweep creates a chat sweep. cooldownDays <= 0 falls back to the
// default window.
func NewSweep(stateStore SweepStateStore, cooldowns service.DeviceStore, channels *channel.Registry, chatChannel string, cooldownDays float64) *Sweep {
	if cooldownDays <= 0 {
		cooldownDays = DefaultChatCooldownDays
	}

	return &Sweep{
		stateStore:   stateStore,
		cooldowns:    cooldowns,
		channels:     channels,
		chatChannel:  chatChannel,
		cooldownDays: cooldownDays,
	}
}

// Run executes one sweep pass over all known tenants. Per-tenant failures
// are logged and skipped; the pass keeps going.
func (s *Sweep) Run(ctx context.Context) error {
	tenantIDs, err := s.stateStore.ListTenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	fired := 0
	for _, tenantID := range tenantIDs {
		ok, err := s.sweepTenant(ctx, tenantID, time.Now())
		if err != nil {
			logrus.Warnf("chat sweep failed for tenant %s: %v", tenantID, err)
			continue
		}
		if ok {
			fired++
		}
	}

	logrus.Infof("chat sweep completed: %d tenants scanned, %d nudges sent", len(tenantIDs), fired)
	return nil
}

func (s *Sweep) sweepTenant(ctx context.Context, tenantID string, now time.Time) (bool, error) {
	reviewState, err := s.stateStore.GetReviewState(ctx, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to load state: %w", err)
	}
	if reviewState.ReviewPosted {
		return false, nil
	}

	cooldown, err := s.loadCooldown(ctx, tenantID)
	if err != nil {
		// Fail closed: an unreadable cooldown must not cause a nudge.
		return false, fmt.Errorf("failed to load chat cooldown: %w", err)
	}
	if !state.ChannelArmed(cooldown, now) {
		return false, nil
	}

	ch := s.channels.GetEnabled(s.chatChannel)
	if ch == nil {
		return false, fmt.Errorf("chat channel %s not available", s.chatChannel)
	}

	res, err := ch.Present(ctx, channel.PresentRequest{
		TenantID: tenantID,
		Surface:  "chat_sweep",
		PlanTier: state.PlanFree,
	})
	if err != nil {
		return false, fmt.Errorf("chat channel failed: %w", err)
	}
	if res == nil {
		return false, fmt.Errorf("chat channel returned no result")
	}
	if !res.Success {
		return false, fmt.Errorf("chat channel declined: %s", res.Code)
	}

	if err := s.storeCooldown(ctx, tenantID, state.ArmChannel(now, s.cooldownDays)); err != nil {
		return false, fmt.Errorf("failed to persist chat cooldown: %w", err)
	}

	metrics.ChatSweepFiredTotal.Inc()
	return true, nil
}

func (s *Sweep) loadCooldown(ctx context.Context, tenantID string) (state.ChannelCooldown, error) {
	var cooldown state.ChannelCooldown

	raw, err := s.cooldowns.GetItem(ctx, chatCooldownKeyPrefix+tenantID)
	if err != nil {
		return cooldown, err
	}
	if raw == "" {
		return cooldown, nil
	}

	if err := json.Unmarshal([]byte(raw), &cooldown); err != nil {
		return cooldown, fmt.Errorf("corrupt cooldown record: %w", err)
	}
	return cooldown, nil
}

func (s *Sweep) storeCooldown(ctx context.Context, tenantID string, cooldown state.ChannelCooldown) error {
	raw, err := json.Marshal(cooldown)
	if err != nil {
		return err
	}
	return s.cooldowns.SetItem(ctx, chatCooldownKeyPrefix+tenantID, string(raw))
}
