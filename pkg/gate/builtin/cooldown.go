package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/schedule"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// CooldownGateID is the identifier for the progressive cooldown gate
	CooldownGateID = "cooldown"
)

// CooldownGate requires the tenant's progressive cooldown window to have
// elapsed. The wait grows with the number of prompts already shown,
// following the configured schedule.
type CooldownGate struct {
	config   gate.GateConfig
	schedule schedule.Schedule
}

// NewCooldownGate creates a new cooldown gate. The schedule comes from the
// "schedule" parameter (wait days per attempt) and falls back to the default
// review schedule. The schedule is validated at construction so a
// misconfigured surface fails at startup, not at evaluation time.
func NewCooldownGate(config gate.GateConfig) (*CooldownGate, error) {
	sched := schedule.Schedule(config.GetFloatSlice("schedule", schedule.DefaultReview))
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cooldown schedule: %w", err)
	}

	logrus.Infof("creating cooldown gate with %d schedule entries (first=%v days, last=%v days)",
		len(sched), sched[0], sched[len(sched)-1])

	return &CooldownGate{
		config:   config,
		schedule: sched,
	}, nil
}

// ID returns the gate identifier.
func (g *CooldownGate) ID() string {
	return g.config.ID
}

// Name returns the gate name.
func (g *CooldownGate) Name() string {
	return "Progressive Cooldown"
}

// Config returns the gate configuration.
func (g *CooldownGate) Config() gate.GateConfig {
	return g.config
}

// Evaluate allows prompting only after the wait for the current request
// count has strictly elapsed since the baseline.
func (g *CooldownGate) Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error) {
	next := g.schedule.NextEligibleAt(s.RequestCount, state.Baseline(s))

	if !schedule.Expired(next, now) {
		logrus.Debugf("cooldown active until %v (requestCount=%d)", next, s.RequestCount)
		return false, nil
	}

	return true, nil
}
