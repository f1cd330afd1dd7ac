package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/webrexstudio/review-engagement/pkg/dispatcher"
	"github.com/webrexstudio/review-engagement/pkg/signal"
)

// Manager orchestrates the complete engagement pipeline:
// Event → Signal → Surfaces → Gates → Channels
type Manager struct {
	processor  *signal.Processor
	dispatcher *dispatcher.Dispatcher
	surfaces   map[string]dispatcher.Surface
	// triggers maps a signal type to the surface IDs it evaluates.
	triggers map[string][]string
	logger   *slog.Logger
}

// NewManager creates a new scheduler manager from the loaded configuration.
func NewManager(processor *signal.Processor, d *dispatcher.Dispatcher, config *Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	surfaces := make(map[string]dispatcher.Surface)
	triggers := make(map[string][]string)
	for _, sc := range config.Surfaces {
		if !sc.Enabled {
			continue
		}
		surfaces[sc.ID] = dispatcher.Surface{
			ID:           sc.ID,
			Gates:        sc.Gates,
			Channels:     sc.Channels,
			GrantsCredit: sc.GrantsCredit,
		}
		for _, trigger := range sc.Triggers {
			triggers[trigger] = append(triggers[trigger], sc.ID)
		}
	}

	return &Manager{
		processor:  processor,
		dispatcher: d,
		surfaces:   surfaces,
		triggers:   triggers,
		logger:     logger,
	}
}

// ProcessEvent runs an engagement event through the complete pipeline.
// The event's side effects (adoption tracking, terminal review state) are
// always applied; automatic surfaces are then evaluated for signal types
// configured as triggers.
func (m *Manager) ProcessEvent(ctx context.Context, tenantID string, event signal.Event) ([]*dispatcher.Result, error) {
	m.logger.Info("processing engagement event",
		slog.String("tenant_id", tenantID),
		slog.String("event_type", event.Type))

	sig, err := m.processor.ProcessEvent(ctx, tenantID, event)
	if err != nil {
		m.logger.Error("failed to process event to signal",
			slog.String("tenant_id", tenantID),
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("signal processing failed: %w", err)
	}

	if sig == nil {
		m.logger.Debug("event did not generate a signal, skipping surfaces",
			slog.String("event_type", event.Type))
		return nil, nil
	}

	surfaceIDs := m.triggers[sig.Type()]
	if len(surfaceIDs) == 0 {
		m.logger.Debug("no surfaces triggered by signal",
			slog.String("signal_type", sig.Type()),
			slog.String("tenant_id", tenantID))
		return nil, nil
	}

	return m.evaluateSurfaces(ctx, tenantID, surfaceIDs, sig, event.DeviceID)
}

// EvaluateSurface evaluates a single surface on demand, outside the
// automatic trigger path. Used by the explicit prompt endpoint. The event
// only supplies session context (privileged flag, plan tier, device); its
// side effects are not applied.
func (m *Manager) EvaluateSurface(ctx context.Context, tenantID, surfaceID string, event signal.Event) (*dispatcher.Result, error) {
	surface, ok := m.surfaces[surfaceID]
	if !ok {
		return nil, fmt.Errorf("unknown surface: %s", surfaceID)
	}

	tenantCtx, err := m.processor.BuildContext(ctx, tenantID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenant context: %w", err)
	}

	return m.dispatcher.MaybePrompt(ctx, tenantID, surface, tenantCtx.EngagementSignal(), event.DeviceID, time.Now())
}

// Surface returns the surface definition for an ID, when enabled.
func (m *Manager) Surface(surfaceID string) (dispatcher.Surface, bool) {
	s, ok := m.surfaces[surfaceID]
	return s, ok
}

func (m *Manager) evaluateSurfaces(ctx context.Context, tenantID string, surfaceIDs []string, sig signal.Signal, deviceID string) ([]*dispatcher.Result, error) {
	tenantCtx := sig.Context()
	if tenantCtx == nil {
		return nil, fmt.Errorf("signal %s carries no tenant context", sig.Type())
	}
	engagement := tenantCtx.EngagementSignal()

	// Cooldown accounting runs on server time. The event timestamp is client
	// supplied and must never become a persisted baseline.
	now := time.Now()
	results := make([]*dispatcher.Result, 0, len(surfaceIDs))
	for _, surfaceID := range surfaceIDs {
		surface := m.surfaces[surfaceID]

		res, err := m.dispatcher.MaybePrompt(ctx, tenantID, surface, engagement, deviceID, now)
		if err != nil {
			m.logger.Error("surface evaluation failed",
				slog.String("surface", surfaceID),
				slog.String("tenant_id", tenantID),
				slog.String("error", err.Error()))
			continue
		}

		if res.Eligible {
			m.logger.Info("surface dispatched",
				slog.String("surface", surfaceID),
				slog.String("tenant_id", tenantID),
				slog.String("channel", res.ChannelUsed))
		} else {
			m.logger.Debug("surface suppressed",
				slog.String("surface", surfaceID),
				slog.String("tenant_id", tenantID),
				slog.String("gate", res.DeniedBy))
		}

		results = append(results, res)
	}

	return results, nil
}
