package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/dispatcher"
	"github.com/webrexstudio/review-engagement/pkg/gate"
	gatebuiltin "github.com/webrexstudio/review-engagement/pkg/gate/builtin"
	"github.com/webrexstudio/review-engagement/pkg/scheduler"
	"github.com/webrexstudio/review-engagement/pkg/signal"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

type memStateStore struct {
	states map[string]*state.ReviewState
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

type memAdoption struct {
	features map[string]map[string]bool
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

type okChannel struct{ id string }

func (c *okChannel) ID() string   { return c.id }
func (c *okChannel) Name() string { return c.id }
func (c *okChannel) Config() channel.ChannelConfig {
	return channel.ChannelConfig{ID: c.id, Type: c.id, Enabled: true}
}
func (c *okChannel) Present(ctx context.Context, req channel.PresentRequest) (*channel.Result, error) {
	return channel.Ok(), nil
}

type apiHarness struct {
	router   *gin.Engine
	store    *memStateStore
	adoption *memAdoption
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gatebuiltin.RegisterGates()

	config := &scheduler.Config{
		Surfaces: []scheduler.SurfaceConfig{
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
				Parameters: map[string]interface{}{"threshold": 0}},
			{ID: "cooldown", Type: gatebuiltin.CooldownGateID, Enabled: true,
				Parameters: map[string]interface{}{"schedule": []interface{}{0.5}}},
		},
		Channels: []channel.ChannelConfig{
			{ID: "store_review", Type: "store_review", Enabled: true},
		},
	}

	gateRegistry := gate.NewRegistry()
	if err := gate.RegisterGates(gateRegistry, config.Gates); err != nil {
		t.Fatalf("failed to register gates: %v", err)
	}
	channelRegistry := channel.NewRegistry()
	if err := channelRegistry.Register(&okChannel{id: "store_review"}); err != nil {
		t.Fatalf("failed to register channel: %v", err)
	}

	store := &memStateStore{states: make(map[string]*state.ReviewState)}
	adoption := &memAdoption{features: make(map[string]map[string]bool)}
	processor := signal.NewProcessor(store, adoption)
	d := dispatcher.NewDispatcher(store, gate.NewEngine(gateRegistry), channelRegistry, nil)
	manager := scheduler.NewManager(processor, d, config, nil)

	router := gin.New()
	NewEngagement(manager, store, adoption).RegisterRoutes(router)

	return &apiHarness{router: router, store: store, adoption: adoption}
}

func (h *apiHarness) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestPostEvent_FeatureToggle(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/events", gin.H{
		"type": "feature_enabled", "feature": "meta_tags",
	}, nil)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	count, _ := h.adoption.Count(context.Background(), "tenant-1")
	if count != 1 {
		t.Errorf("expected adoption count 1, got %d", count)
	}
}

func TestPostEvent_InvalidPayload(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/events", gin.H{"feature": "meta_tags"}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPostEvent_SessionStartDispatches(t *testing.T) {
	h := newAPIHarness(t)
	t0 := time.Now().Add(-24 * time.Hour)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}
	h.adoption.features["tenant-1"] = map[string]bool{"meta_tags": true}

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/events", gin.H{"type": "session_start"}, nil)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Surfaces []struct {
			Eligible bool   `json:"eligible"`
			Channel  string `json:"channel"`
		} `json:"surfaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Surfaces) != 1 || !response.Surfaces[0].Eligible {
		t.Fatalf("expected one eligible surface, got %+v", response.Surfaces)
	}
	if response.Surfaces[0].Channel != "store_review" {
		t.Errorf("unexpected channel %q", response.Surfaces[0].Channel)
	}
}

func TestPostEvent_InternalSessionSuppressed(t *testing.T) {
	h := newAPIHarness(t)
	t0 := time.Now().Add(-24 * time.Hour)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}
	h.adoption.features["tenant-1"] = map[string]bool{"meta_tags": true}

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/events", gin.H{"type": "session_start"},
		map[string]string{InternalSessionHeader: "true"})

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	var response struct {
		Surfaces []struct {
			Eligible bool   `json:"eligible"`
			Gate     string `json:"gate"`
		} `json:"surfaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Surfaces) != 1 || response.Surfaces[0].Eligible {
		t.Fatalf("expected suppression for internal session, got %+v", response.Surfaces)
	}
	if response.Surfaces[0].Gate != "privileged_session" {
		t.Errorf("expected denial by privileged_session, got %q", response.Surfaces[0].Gate)
	}
}

func TestRequestPrompt(t *testing.T) {
	h := newAPIHarness(t)
	t0 := time.Now().Add(-24 * time.Hour)
	h.store.states["tenant-1"] = &state.ReviewState{CreatedAt: t0}
	h.adoption.features["tenant-1"] = map[string]bool{"meta_tags": true}

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/prompt", gin.H{
		"surface": "review_modal", "device_id": "dev-1",
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Eligible     bool   `json:"eligible"`
		StateChanged bool   `json:"state_changed"`
		Channel      string `json:"channel"`
		RequestCount int    `json:"request_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Eligible || response.Channel != "store_review" {
		t.Errorf("unexpected response: %+v", response)
	}
	if !response.StateChanged || response.RequestCount != 1 {
		t.Errorf("expected recorded request, got %+v", response)
	}
}

func TestRequestPrompt_UnknownSurface(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/prompt", gin.H{"surface": "nope"}, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSubmitReviewAndGetState(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodPost, "/v1/tenants/tenant-1/review", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodGet, "/v1/tenants/tenant-1/state", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response struct {
		State struct {
			ReviewPosted bool `json:"reviewPosted"`
		} `json:"state"`
		AdoptionCount int `json:"adoption_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.State.ReviewPosted {
		t.Error("review submission not reflected in state")
	}
}
