package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/dispatcher"
	"github.com/webrexstudio/review-engagement/pkg/gate"
	gatebuiltin "github.com/webrexstudio/review-engagement/pkg/gate/builtin"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/signal"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

type memStateStore struct {
	states map[string]*state.ReviewState
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]*state.ReviewState)}
}

// GetReviewState persists the zero state it creates for unknown tenants,
// matching the Redis store: the cooldown baseline never moves between reads.
func (m *memStateStore) GetReviewState(ctx context.Context, tenantID string) (*state.ReviewState, error) {
	if s, ok := m.states[tenantID]; ok {
		cp := *s
		return &cp, nil
	}
	s := &state.ReviewState{CreatedAt: time.Now()}
	m.states[tenantID] = s
	cp := *s
	return &cp, nil
}

func (m *memStateStore) UpdateReviewState(ctx context.Context, tenantID string, s *state.ReviewState) error {
	cp := *s
	m.states[tenantID] = &cp
	return nil
}

func (m *memStateStore) ListTenantIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	return ids, nil
}

type memAdoption struct {
	features map[string]map[string]bool
}

func newMemAdoption() *memAdoption {
	return &memAdoption{features: make(map[string]map[string]bool)}
}

func (m *memAdoption) AddFeature(ctx context.Context, tenantID, feature string) error {
	if m.features[tenantID] == nil {
		m.features[tenantID] = make(map[string]bool)
	}
	m.features[tenantID][feature] = true
	return nil
}

func (m *memAdoption) RemoveFeature(ctx context.Context, tenantID, feature string) error {
	delete(m.features[tenantID], feature)
	return nil
}

func (m *memAdoption) Count(ctx context.Context, tenantID string) (int, error) {
	return len(m.features[tenantID]), nil
}

type recordingChannel struct {
	id       string
	presents []channel.PresentRequest
	fail     bool
}

func (c *recordingChannel) ID() string   { return c.id }
func (c *recordingChannel) Name() string { return c.id }
func (c *recordingChannel) Config() channel.ChannelConfig {
	return channel.ChannelConfig{ID: c.id, Type: c.id, Enabled: true}
}

func (c *recordingChannel) Present(ctx context.Context, req channel.PresentRequest) (*channel.Result, error) {
	c.presents = append(c.presents, req)
	if c.fail {
		return channel.Failed("declined", "declined"), nil
	}
	return channel.Ok(), nil
}

func testConfig() *Config {
	return &Config{
		Surfaces: []SurfaceConfig{
			{
				ID:       "review_modal",
				Enabled:  true,
				Gates:    []string{"review_posted", "privileged_session", "feature_adoption", "cooldown"},
				Channels: []string{"store_review"},
				Triggers: []string{signal.TypeSessionStart},
			},
		},
		Gates: []gate.GateConfig{
			{ID: "review_posted", Type: gatebuiltin.ReviewPostedGateID, Enabled: true},
			{ID: "privileged_session", Type: gatebuiltin.PrivilegedSessionGateID, Enabled: true},
			{ID: "feature_adoption", Type: gatebuiltin.FeatureAdoptionGateID, Enabled: true,
				Parameters: map[string]interface{}{"threshold": 1}},
			{ID: "cooldown", Type: gatebuiltin.CooldownGateID, Enabled: true},
		},
		Channels: []channel.ChannelConfig{
			{ID: "store_review", Type: "store_review", Enabled: true},
		},
	}
}

type managerHarness struct {
	manager *Manager
	store   *memStateStore
	chan1   *recordingChannel
}

func newManagerHarness(t *testing.T) *managerHarness {
	t.Helper()
	gatebuiltin.RegisterGates()

	config := testConfig()

	gateRegistry := gate.NewRegistry()
	if err := gate.RegisterGates(gateRegistry, config.Gates); err != nil {
		t.Fatalf("failed to register gates: %v", err)
	}

	chan1 := &recordingChannel{id: "store_review"}
	channelRegistry := channel.NewRegistry()
	if err := channelRegistry.Register(chan1); err != nil {
		t.Fatalf("failed to register channel: %v", err)
	}

	store := newMemStateStore()
	adoption := newMemAdoption()
	processor := signal.NewProcessor(store, adoption)
	d := dispatcher.NewDispatcher(store, gate.NewEngine(gateRegistry), channelRegistry, nil)

	return &managerHarness{
		manager: NewManager(processor, d, config, nil),
		store:   store,
		chan1:   chan1,
	}
}

func TestManagerProcessEvent_SessionStartTriggersSurface(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	// Two features cross the adoption threshold.
	for _, f := range []string{"meta_tags", "image_alt"} {
		if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f, Timestamp: t0,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}
	// Feature toggles are not a configured trigger, nothing presented yet.
	if len(h.chan1.presents) != 0 {
		t.Fatalf("feature toggles must not trigger surfaces, got %d presents", len(h.chan1.presents))
	}

	results, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventSessionStart, DeviceID: "dev-1", PlanTier: "paid",
		Timestamp: t0.Add(13 * time.Hour),
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || !results[0].Eligible {
		t.Fatalf("expected one dispatched surface, got %+v", results)
	}
	if len(h.chan1.presents) != 1 {
		t.Fatalf("expected one presentation, got %d", len(h.chan1.presents))
	}
	if got := h.chan1.presents[0]; got.DeviceID != "dev-1" || got.PlanTier != state.PlanPaid {
		t.Errorf("presentation request not threaded through: %+v", got)
	}
	if got := h.store.states["tenant-1"].RequestCount; got != 1 {
		t.Errorf("expected request count 1, got %d", got)
	}
}

func TestManagerProcessEvent_SuppressedBelowThreshold(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventFeatureEnabled, Feature: "meta_tags", Timestamp: t0,
	}); err != nil {
		t.Fatalf("feature event failed: %v", err)
	}

	results, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventSessionStart, Timestamp: t0.Add(13 * time.Hour),
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || results[0].Eligible {
		t.Fatalf("expected suppression, got %+v", results)
	}
	if results[0].DeniedBy != "feature_adoption" {
		t.Errorf("expected denial by feature_adoption, got %q", results[0].DeniedBy)
	}
}

func TestManagerProcessEvent_ReviewSubmittedStopsPrompting(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventReviewSubmitted, Timestamp: t0,
	}); err != nil {
		t.Fatalf("review event failed: %v", err)
	}
	if !h.store.states["tenant-1"].ReviewPosted {
		t.Fatal("review submission not persisted")
	}

	for _, f := range []string{"meta_tags", "image_alt", "sitemap"} {
		if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f, Timestamp: t0,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}

	results, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventSessionStart, Timestamp: t0.Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || results[0].Eligible {
		t.Fatalf("reviewed tenant must never be prompted again, got %+v", results)
	}
}

// Drives a tenant that has never been seen before through the full pipeline
// against the real Redis stores. The first read must pin the cooldown
// baseline; a tenant whose baseline floated with every read would stay
// inside the first wait window forever.
func TestManagerProcessEvent_BrandNewTenant(t *testing.T) {
	gatebuiltin.RegisterGates()
	config := testConfig()

	gateRegistry := gate.NewRegistry()
	if err := gate.RegisterGates(gateRegistry, config.Gates); err != nil {
		t.Fatalf("failed to register gates: %v", err)
	}
	chan1 := &recordingChannel{id: "store_review"}
	channelRegistry := channel.NewRegistry()
	if err := channelRegistry.Register(chan1); err != nil {
		t.Fatalf("failed to register channel: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := service.NewRedisReviewStateStore(client, service.RedisReviewStateStoreConfig{})
	adoption := service.NewRedisAdoptionTracker(client, service.RedisAdoptionTrackerConfig{})
	processor := signal.NewProcessor(store, adoption)
	d := dispatcher.NewDispatcher(store, gate.NewEngine(gateRegistry), channelRegistry, nil)
	manager := NewManager(processor, d, config, nil)

	ctx := context.Background()
	tenantID := "tenant-new"

	s1, err := store.GetReviewState(ctx, tenantID)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	s2, err := store.GetReviewState(ctx, tenantID)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if !s2.CreatedAt.Equal(s1.CreatedAt) {
		t.Fatalf("cooldown baseline moved between reads: %v vs %v", s1.CreatedAt, s2.CreatedAt)
	}

	for _, f := range []string{"meta_tags", "image_alt"} {
		if _, err := manager.ProcessEvent(ctx, tenantID, signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}

	// Inside the first half-day window only the cooldown holds the prompt.
	results, err := manager.ProcessEvent(ctx, tenantID, signal.Event{Type: signal.EventSessionStart})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || results[0].Eligible {
		t.Fatalf("expected suppression inside the first window, got %+v", results)
	}
	if results[0].DeniedBy != "cooldown" {
		t.Fatalf("expected denial by cooldown, got %q", results[0].DeniedBy)
	}

	// Age the persisted baseline past the first window; the next session
	// must prompt.
	aged, err := store.GetReviewState(ctx, tenantID)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	aged.CreatedAt = time.Now().Add(-13 * time.Hour)
	if err := store.UpdateReviewState(ctx, tenantID, aged); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	results, err = manager.ProcessEvent(ctx, tenantID, signal.Event{
		Type: signal.EventSessionStart, DeviceID: "dev-1",
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || !results[0].Eligible {
		t.Fatalf("expected a dispatched prompt past the first window, got %+v", results)
	}
	if len(chan1.presents) != 1 {
		t.Fatalf("expected one presentation, got %d", len(chan1.presents))
	}
}

func TestManagerProcessEvent_ClientTimestampNotBaseline(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: time.Now().Add(-13 * time.Hour)}

	for _, f := range []string{"meta_tags", "image_alt"} {
		if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}

	// A forged far-future timestamp must neither change the verdict nor be
	// persisted as the cooldown baseline.
	forged := time.Now().Add(90 * 24 * time.Hour)
	results, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventSessionStart, Timestamp: forged,
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || !results[0].Eligible {
		t.Fatalf("expected a dispatched prompt, got %+v", results)
	}

	last := h.store.states["tenant-1"].LastRequestedAt
	if last == nil {
		t.Fatal("prompt not recorded")
	}
	if last.Equal(forged) || last.After(time.Now().Add(time.Minute)) {
		t.Errorf("client timestamp persisted as baseline: %v", last)
	}
}

func TestManagerProcessEvent_FutureTimestampDoesNotSkipCooldown(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	// Fresh tenant: the first half-day window is still open in server time.
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: time.Now()}

	for _, f := range []string{"meta_tags", "image_alt"} {
		if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}

	results, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
		Type: signal.EventSessionStart, Timestamp: time.Now().Add(13 * time.Hour),
	})
	if err != nil {
		t.Fatalf("session event failed: %v", err)
	}
	if len(results) != 1 || results[0].Eligible {
		t.Fatalf("a future event timestamp must not defeat the cooldown, got %+v", results)
	}
	if results[0].DeniedBy != "cooldown" {
		t.Errorf("expected denial by cooldown, got %q", results[0].DeniedBy)
	}
}

func TestManagerEvaluateSurface_Unknown(t *testing.T) {
	h := newManagerHarness(t)

	if _, err := h.manager.EvaluateSurface(context.Background(), "tenant-1", "nope", signal.Event{}); err == nil {
		t.Fatal("expected an error for an unknown surface")
	}
}

func TestManagerEvaluateSurface_OnDemand(t *testing.T) {
	h := newManagerHarness(t)
	ctx := context.Background()
	t0 := time.Now().Add(-48 * time.Hour)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}

	for _, f := range []string{"meta_tags", "image_alt"} {
		if _, err := h.manager.ProcessEvent(ctx, "tenant-1", signal.Event{
			Type: signal.EventFeatureEnabled, Feature: f,
		}); err != nil {
			t.Fatalf("feature event failed: %v", err)
		}
	}

	res, err := h.manager.EvaluateSurface(ctx, "tenant-1", "review_modal", signal.Event{DeviceID: "dev-9", PlanTier: "paid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Eligible {
		t.Fatalf("expected eligibility, denied by %q", res.DeniedBy)
	}
	if len(h.chan1.presents) != 1 || h.chan1.presents[0].DeviceID != "dev-9" {
		t.Errorf("presentation not threaded through: %+v", h.chan1.presents)
	}
}

func TestValidateWiring(t *testing.T) {
	gatebuiltin.RegisterGates()
	config := testConfig()

	gateRegistry := gate.NewRegistry()
	if err := gate.RegisterGates(gateRegistry, config.Gates); err != nil {
		t.Fatalf("failed to register gates: %v", err)
	}
	channelRegistry := channel.NewRegistry()
	if err := channelRegistry.Register(&recordingChannel{id: "store_review"}); err != nil {
		t.Fatalf("failed to register channel: %v", err)
	}

	if err := ValidateWiring(gateRegistry, channelRegistry, config); err != nil {
		t.Errorf("expected wiring to validate, got %v", err)
	}

	// A gate enabled in config but missing from the registry is an error.
	config.Gates = append(config.Gates, gate.GateConfig{
		ID: "ghost", Type: gatebuiltin.ReviewPostedGateID, Enabled: true,
	})
	if err := ValidateWiring(gateRegistry, channelRegistry, config); err == nil {
		t.Error("expected wiring validation to fail for an unregistered gate")
	}
}
