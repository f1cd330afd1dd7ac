package signal

import (
	"time"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Signal represents a normalized engagement event with tenant context.
// Signals are produced by the Processor from raw API events and consumed by
// the scheduler manager to decide which surfaces to evaluate.
type Signal interface {
	// Type returns the signal type identifier (e.g., "feature_toggle").
	Type() string

	// TenantID returns the merchant identifier.
	TenantID() string

	// Timestamp returns when the signal occurred.
	Timestamp() time.Time

	// Metadata returns additional signal-specific data.
	// This allows consumers to access signal-specific information without type assertions.
	Metadata() map[string]interface{}

	// Context returns enriched tenant context (state, adoption count).
	Context() *TenantContext
}

// TenantContext wraps tenant state with the derived inputs eligibility
// needs. This gives every consumer the same view of the tenant.
type TenantContext struct {
	TenantID      string
	State         *state.ReviewState
	AdoptionCount int
	// AdoptionLoaded distinguishes "zero features" from "count not loaded";
	// eligibility fails closed when the count is missing.
	AdoptionLoaded bool
	Privileged     bool
	PlanTier       state.PlanTier
}

// EngagementSignal converts the context into the typed structure the
// eligibility gates consume.
func (c *TenantContext) EngagementSignal() state.EngagementSignal {
	sig := state.EngagementSignal{
		PrivilegedSession: c.Privileged,
		PlanTier:          c.PlanTier,
	}
	if c.AdoptionLoaded {
		count := c.AdoptionCount
		sig.FeatureAdoptionCount = &count
	}
	return sig
}
