package builtin

import (
	"context"
	"time"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// PrivilegedSessionGateID is the identifier for the internal-session check
	PrivilegedSessionGateID = "privileged_session"
)

// PrivilegedSessionGate denies for administrative/internal sessions.
// Internal users exploring a merchant's store must never generate prompts.
type PrivilegedSessionGate struct {
	config gate.GateConfig
}

// NewPrivilegedSessionGate creates a new privileged session gate.
func NewPrivilegedSessionGate(config gate.GateConfig) *PrivilegedSessionGate {
	return &PrivilegedSessionGate{config: config}
}

// ID returns the gate identifier.
func (g *PrivilegedSessionGate) ID() string {
	return g.config.ID
}

// Name returns the gate name.
func (g *PrivilegedSessionGate) Name() string {
	return "Privileged Session"
}

// Config returns the gate configuration.
func (g *PrivilegedSessionGate) Config() gate.GateConfig {
	return g.config
}

// Evaluate allows prompting only for regular merchant sessions.
func (g *PrivilegedSessionGate) Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error) {
	return !sig.PrivilegedSession, nil
}
