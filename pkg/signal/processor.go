package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Processor converts raw engagement events into signals enriched with
// tenant context. It also owns the side effects the events imply: feature
// toggles maintain the adoption set, review submission flips the terminal
// flag.
type Processor struct {
	stateStore StateStore
	adoption   service.AdoptionTracker
}

// StateStore is the subset of service.StateStore the processor needs.
type StateStore interface {
	GetReviewState(ctx context.Context, tenantID string) (*state.ReviewState, error)
	UpdateReviewState(ctx context.Context, tenantID string, s *state.ReviewState) error
}

// NewProcessor creates a signal processor.
func NewProcessor(stateStore StateStore, adoption service.AdoptionTracker) *Processor {
	return &Processor{
		stateStore: stateStore,
		adoption:   adoption,
	}
}

// ProcessEvent converts an event to a signal, applying its side effects.
// Returns a nil signal for event types the processor does not handle.
func (p *Processor) ProcessEvent(ctx context.Context, tenantID string, event Event) (Signal, error) {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	switch event.Type {
	case EventFeatureEnabled, EventFeatureDisabled:
		return p.processFeatureToggle(ctx, tenantID, event, ts)
	case EventSessionStart:
		tenantCtx, err := p.buildContext(ctx, tenantID, event)
		if err != nil {
			return nil, err
		}
		return NewSessionStartSignal(tenantID, ts, tenantCtx), nil
	case EventReviewSubmitted:
		return p.processReviewSubmitted(ctx, tenantID, event, ts)
	default:
		logrus.Debugf("ignoring unknown event type %q for tenant %s", event.Type, tenantID)
		return nil, nil
	}
}

func (p *Processor) processFeatureToggle(ctx context.Context, tenantID string, event Event, ts time.Time) (Signal, error) {
	if event.Feature == "" {
		return nil, fmt.Errorf("feature event without feature name")
	}

	enabled := event.Type == EventFeatureEnabled
	var err error
	if enabled {
		err = p.adoption.AddFeature(ctx, tenantID, event.Feature)
	} else {
		err = p.adoption.RemoveFeature(ctx, tenantID, event.Feature)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to track feature toggle: %w", err)
	}

	tenantCtx, err := p.buildContext(ctx, tenantID, event)
	if err != nil {
		return nil, err
	}

	return NewFeatureToggleSignal(tenantID, ts, event.Feature, enabled, tenantCtx), nil
}

func (p *Processor) processReviewSubmitted(ctx context.Context, tenantID string, event Event, ts time.Time) (Signal, error) {
	s, err := p.stateStore.GetReviewState(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	state.MarkReviewed(s, ts)
	if err := p.stateStore.UpdateReviewState(ctx, tenantID, s); err != nil {
		return nil, fmt.Errorf("failed to persist reviewed state: %w", err)
	}

	tenantCtx := p.contextFromState(tenantID, s, event)
	p.loadAdoption(ctx, tenantCtx)

	logrus.Infof("tenant %s submitted a review", tenantID)
	return NewReviewSubmittedSignal(tenantID, ts, tenantCtx), nil
}

// BuildContext loads state and adoption count for the tenant without
// applying any event side effects. The explicit prompt endpoint uses it to
// evaluate a surface on demand.
func (p *Processor) BuildContext(ctx context.Context, tenantID string, event Event) (*TenantContext, error) {
	return p.buildContext(ctx, tenantID, event)
}

// buildContext loads state and adoption count for the tenant. Adoption load
// failures are not fatal: the context is returned with AdoptionLoaded=false
// and downstream eligibility fails closed.
func (p *Processor) buildContext(ctx context.Context, tenantID string, event Event) (*TenantContext, error) {
	s, err := p.stateStore.GetReviewState(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	tenantCtx := p.contextFromState(tenantID, s, event)
	p.loadAdoption(ctx, tenantCtx)
	return tenantCtx, nil
}

func (p *Processor) contextFromState(tenantID string, s *state.ReviewState, event Event) *TenantContext {
	tier := state.PlanTier(event.PlanTier)
	if tier != state.PlanPaid {
		tier = state.PlanFree
	}

	return &TenantContext{
		TenantID:   tenantID,
		State:      s,
		Privileged: event.PrivilegedSession,
		PlanTier:   tier,
	}
}

func (p *Processor) loadAdoption(ctx context.Context, tenantCtx *TenantContext) {
	count, err := p.adoption.Count(ctx, tenantCtx.TenantID)
	if err != nil {
		logrus.Warnf("failed to load adoption count for tenant %s: %v", tenantCtx.TenantID, err)
		return
	}

	tenantCtx.AdoptionCount = count
	tenantCtx.AdoptionLoaded = true
}
