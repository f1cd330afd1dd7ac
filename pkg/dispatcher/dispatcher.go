package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/channel"
	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/metrics"
	"github.com/webrexstudio/review-engagement/pkg/service"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Surface is one prompt surface: an ordered gate chain plus an ordered
// channel preference list. The review modal and the credit banner are two
// Surface instances built from the same machinery.
type Surface struct {
	ID           string
	Gates        []string
	Channels     []string
	GrantsCredit bool
}

// Result reports what a dispatch attempt did.
type Result struct {
	Eligible     bool
	StateChanged bool
	NewState     *state.ReviewState
	ChannelUsed  string
	// DeniedBy names the gate that suppressed the prompt, when not eligible.
	DeniedBy string
}

// Dispatcher orchestrates a prompt attempt: eligibility, durable cooldown
// accounting, channel selection with fallback, telemetry.
type Dispatcher struct {
	stateStore service.StateStore
	engine     *gate.Engine
	channels   *channel.Registry
	telemetry  service.EventLogger
}

// NewDispatcher creates a new engagement dispatcher.
func NewDispatcher(stateStore service.StateStore, engine *gate.Engine, channels *channel.Registry, telemetry service.EventLogger) *Dispatcher {
	if telemetry == nil {
		telemetry = service.NopEventLogger{}
	}

	return &Dispatcher{
		stateStore: stateStore,
		engine:     engine,
		channels:   channels,
		telemetry:  telemetry,
	}
}

// MaybePrompt evaluates the surface for the tenant and, when eligible,
// records the attempt and presents through the first channel that succeeds.
//
// The state write happens before any channel is touched. A crash or reload
// after presentation can therefore never cause an immediate re-prompt; the
// worst case under a write race is one duplicate prompt, never a lost
// cooldown. If the write fails the whole attempt is aborted (fail closed).
func (d *Dispatcher) MaybePrompt(ctx context.Context, tenantID string, surface Surface, sig state.EngagementSignal, deviceID string, now time.Time) (*Result, error) {
	metrics.PromptsEvaluatedTotal.WithLabelValues(surface.ID).Inc()

	s, err := d.stateStore.GetReviewState(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load state for tenant %s: %w", tenantID, err)
	}

	verdict, err := d.engine.EvaluateChain(ctx, surface.Gates, s, sig, now)
	if err != nil {
		logrus.Errorf("gate chain evaluation failed for surface %s: %v", surface.ID, err)
	}
	if !verdict.Allowed {
		metrics.PromptsSuppressedTotal.WithLabelValues(surface.ID, verdict.DeniedBy).Inc()
		d.telemetry.Log("prompt_suppressed", map[string]interface{}{
			"tenant_id": tenantID,
			"surface":   surface.ID,
			"gate":      verdict.DeniedBy,
		})
		return &Result{Eligible: false, StateChanged: false, NewState: s, DeniedBy: verdict.DeniedBy}, nil
	}

	// Record the attempt before presenting anything. Credit surfaces keep
	// their own window anchor and must not consume the review cooldown.
	planned := ""
	if len(surface.Channels) > 0 {
		planned = surface.Channels[0]
	}
	if surface.GrantsCredit {
		state.GrantCredit(s, now)
	} else {
		state.MarkPrompted(s, now, planned)
	}

	if err := d.stateStore.UpdateReviewState(ctx, tenantID, s); err != nil {
		metrics.StateWriteFailuresTotal.Inc()
		logrus.Errorf("aborting prompt for tenant %s: state write failed: %v", tenantID, err)
		return &Result{Eligible: true, StateChanged: false}, fmt.Errorf("failed to record prompt attempt: %w", err)
	}

	used := d.present(ctx, tenantID, surface, sig, deviceID)

	// The planned channel was persisted optimistically; correct it when a
	// fallback presented instead, and clear it when nothing presented at
	// all. Best effort: the cooldown is already durable.
	if !surface.GrantsCredit && used != planned {
		s.ActiveChannel = used
		if err := d.stateStore.UpdateReviewState(ctx, tenantID, s); err != nil {
			logrus.Warnf("failed to record active channel for tenant %s: %v", tenantID, err)
		}
	}

	d.telemetry.Log("prompt_dispatched", map[string]interface{}{
		"tenant_id":     tenantID,
		"surface":       surface.ID,
		"channel":       used,
		"request_count": s.RequestCount,
	})

	return &Result{
		Eligible:     true,
		StateChanged: true,
		NewState:     s,
		ChannelUsed:  used,
	}, nil
}

// present walks the surface's channel preference list. Eligibility is not
// re-checked between channels: the decision to prompt already consumed one
// cooldown cycle. Returns the ID of the channel that presented, or "" when
// every channel failed.
func (d *Dispatcher) present(ctx context.Context, tenantID string, surface Surface, sig state.EngagementSignal, deviceID string) string {
	req := channel.PresentRequest{
		TenantID: tenantID,
		DeviceID: deviceID,
		Surface:  surface.ID,
		PlanTier: sig.PlanTier,
	}

	for _, channelID := range surface.Channels {
		ch := d.channels.GetEnabled(channelID)
		if ch == nil {
			logrus.Warnf("channel %s not available for surface %s", channelID, surface.ID)
			metrics.ChannelFallbacksTotal.WithLabelValues(surface.ID, channelID).Inc()
			continue
		}

		res, err := ch.Present(ctx, req)
		if err == nil && res != nil && res.Success {
			metrics.PromptsDispatchedTotal.WithLabelValues(surface.ID, channelID).Inc()
			return channelID
		}

		reason := "unknown"
		if res != nil && res.Code != "" {
			reason = res.Code
		}
		logrus.Warnf("channel %s failed for tenant %s (%s), falling back", channelID, tenantID, reason)
		metrics.ChannelFallbacksTotal.WithLabelValues(surface.ID, channelID).Inc()
	}

	logrus.Warnf("all channels failed for tenant %s on surface %s; attempt already recorded", tenantID, surface.ID)
	return ""
}
