package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Engine evaluates ordered gate chains. A chain allows prompting only when
// every gate allows; evaluation short-circuits at the first denial so the
// cheapest checks should come first in configuration.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new gate evaluation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// EvaluateChain evaluates the named gates in order against the tenant state
// and session signal. A gate evaluation error denies the chain (fail
// closed): prompting must never happen on partial data.
func (e *Engine) EvaluateChain(ctx context.Context, gateIDs []string, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (Verdict, error) {
	for _, gateID := range gateIDs {
		g := e.registry.Get(gateID)
		if g == nil {
			return Verdict{Allowed: false, DeniedBy: gateID}, fmt.Errorf("gate not found: %s", gateID)
		}

		allowed, err := g.Evaluate(ctx, s, sig, now)
		if err != nil {
			logrus.Errorf("gate %s evaluation failed, denying: %v", gateID, err)
			return Verdict{Allowed: false, DeniedBy: gateID}, nil
		}

		if !allowed {
			logrus.Debugf("gate %s denied prompt", gateID)
			return Verdict{Allowed: false, DeniedBy: gateID}, nil
		}
	}

	return Verdict{Allowed: true}, nil
}

// GetRegistry returns the gate registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
