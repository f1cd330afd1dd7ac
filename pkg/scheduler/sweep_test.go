package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

type memDeviceStore struct {
	items map[string]string
}

func newMemDeviceStore() *memDeviceStore {
	return &memDeviceStore{items: make(map[string]string)}
}

func (m *memDeviceStore) GetItem(ctx context.Context, key string) (string, error) {
	return m.items[key], nil
}

func (m *memDeviceStore) SetItem(ctx context.Context, key, value string) error {
	m.items[key] = value
	return nil
}

func newSweepHarness(t *testing.T) (*Sweep, *memStateStore, *memDeviceStore, *recordingChannel) {
	t.Helper()

	chat := &recordingChannel{id: "chat_message"}
	registry := channel.NewRegistry()
	if err := registry.Register(chat); err != nil {
		t.Fatalf("failed to register channel: %v", err)
	}

	store := newMemStateStore()
	devices := newMemDeviceStore()
	sweep := NewSweep(store, devices, registry, "chat_message", 10)
	return sweep, store, devices, chat
}

func TestSweep_NudgesActiveTenants(t *testing.T) {
	sweep, store, devices, chat := newSweepHarness(t)
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}
	store.states["tenant-2"] = &state.ReviewState{CreatedAt: t0, ReviewPosted: true}

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chat.presents) != 1 {
		t.Fatalf("expected exactly one nudge, got %d", len(chat.presents))
	}
	if chat.presents[0].TenantID != "tenant-1" {
		t.Errorf("nudged the wrong tenant: %s", chat.presents[0].TenantID)
	}
	if devices.items[chatCooldownKeyPrefix+"tenant-1"] == "" {
		t.Error("cooldown not persisted after nudge")
	}
}

func TestSweep_RespectsCooldown(t *testing.T) {
	sweep, store, _, chat := newSweepHarness(t)
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second pass lands inside the ten day window.
	if len(chat.presents) != 1 {
		t.Errorf("expected one nudge across both passes, got %d", len(chat.presents))
	}
}

func TestSweep_RearmedAfterWindow(t *testing.T) {
	sweep, store, devices, chat := newSweepHarness(t)
	t0 := time.Now().Add(-11 * 24 * time.Hour)
	store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	// Simulate a nudge eleven days ago.
	cooldown := state.ArmChannel(t0, 10)
	if err := sweep.storeCooldown(context.Background(), "tenant-1", cooldown); err != nil {
		t.Fatalf("failed to seed cooldown: %v", err)
	}

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chat.presents) != 1 {
		t.Fatalf("expected the channel to be re-armed, got %d presents", len(chat.presents))
	}
	if devices.items[chatCooldownKeyPrefix+"tenant-1"] == "" {
		t.Error("fresh cooldown not persisted")
	}
}

func TestSweep_ChannelFailureKeepsArmed(t *testing.T) {
	sweep, store, devices, chat := newSweepHarness(t)
	chat.fail = true
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Failed delivery must not burn the cooldown.
	if devices.items[chatCooldownKeyPrefix+"tenant-1"] != "" {
		t.Error("cooldown must not be armed when delivery failed")
	}

	chat.fail = false
	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chat.presents) != 2 {
		t.Errorf("expected a retry on the next pass, got %d presents", len(chat.presents))
	}
}
