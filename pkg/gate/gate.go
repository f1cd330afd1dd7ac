package gate

import (
	"context"
	"time"

	"github.com/webrexstudio/review-engagement/pkg/state"
)

// Gate is a single eligibility precondition. Gates are registered in a
// Registry and evaluated in configured order by the Engine; every gate in a
// surface's chain must allow before a prompt is shown.
type Gate interface {
	// ID returns unique gate identifier.
	ID() string

	// Name returns human-readable gate name.
	Name() string

	// Evaluate reports whether this gate allows prompting. Evaluation is
	// pure: it must not mutate state and repeated calls with identical
	// inputs yield identical results.
	// Returns error only for unexpected failures, not eligibility denials.
	Evaluate(ctx context.Context, s *state.ReviewState, sig state.EngagementSignal, now time.Time) (bool, error)

	// Config returns the gate's configuration.
	Config() GateConfig
}

// Verdict is the outcome of evaluating a gate chain.
type Verdict struct {
	Allowed bool
	// DeniedBy is the ID of the gate that denied, empty when allowed.
	DeniedBy string
}
