package builtin

import (
	"context"
	"time"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// ReviewPostedGateID is the identifier for the terminal review check
	ReviewPostedGateID = "review_posted"
)

// ReviewPostedGate denies once the tenant has posted a review. The Reviewed
// state is terminal: no surface guarded by this gate ever prompts again.
type ReviewPostedGate struct {
	config gate.GateConfig
}

// NewReviewPostedGate creates a new terminal review gate.
func NewReviewPostedGate(config gate.GateConfig) *ReviewPostedGate {
	return &ReviewPostedGate{config: config}
}

// ID returns the gate identifier.
func (g *ReviewPostedGate) ID() string {
	return g.config.ID
}

// Name returns the gate name.
func (g *ReviewPostedGate) Name() string {
	return "Review Already Posted"
}

// Config returns the gate configuration.
func (g *ReviewPostedGate) Config() gate.GateConfig {
	return g.config
}

// Evaluate allows prompting only while no review has been posted.
func (g *ReviewPostedGate) Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error) {
	return !s.ReviewPosted, nil
}
