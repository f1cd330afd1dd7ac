package builtin

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/gate"
	"github.com/webrexstudio/review-engagement/pkg/state"
)

const (
	// FeatureAdoptionGateID is the identifier for the engagement threshold gate
	FeatureAdoptionGateID = "feature_adoption"

	// DefaultAdoptionThreshold is the default minimum feature count.
	// Prompting disengaged users yields low-quality or negative reviews, so
	// the count must exceed this value.
	DefaultAdoptionThreshold = 3
)

// FeatureAdoptionGate requires the tenant to have enabled more than a
// threshold of distinct product features. A missing count denies: prompting
// must never happen on partial data.
type FeatureAdoptionGate struct {
	config    gate.GateConfig
	threshold int
}

// NewFeatureAdoptionGate creates a new engagement threshold gate.
func NewFeatureAdoptionGate(config gate.GateConfig) *FeatureAdoptionGate {
	threshold := config.GetInt("threshold", DefaultAdoptionThreshold)

	logrus.Infof("creating feature adoption gate with threshold=%d", threshold)

	return &FeatureAdoptionGate{
		config:    config,
		threshold: threshold,
	}
}

// ID returns the gate identifier.
func (g *FeatureAdoptionGate) ID() string {
	return g.config.ID
}

// Name returns the gate name.
func (g *FeatureAdoptionGate) Name() string {
	return "Feature Adoption Threshold"
}

// Config returns the gate configuration.
func (g *FeatureAdoptionGate) Config() gate.GateConfig {
	return g.config
}

// Evaluate allows prompting only when the adoption count is loaded and
// strictly exceeds the threshold.
func (g *FeatureAdoptionGate) Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error) {
	if sig.FeatureAdoptionCount == nil {
		logrus.Debugf("feature adoption count not loaded, denying")
		return false, nil
	}

	return *sig.FeatureAdoptionCount > g.threshold, nil
}
